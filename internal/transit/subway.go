package transit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/cenkalti/backoff/v4"
	"github.com/randytsao24/subwayboard/internal/cache"
	"github.com/randytsao24/subwayboard/internal/departures"
	"github.com/randytsao24/subwayboard/internal/metrics"
	"github.com/randytsao24/subwayboard/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"google.golang.org/protobuf/proto"
)

// ErrUnknownStation is returned when a requested station is not in the directory
var ErrUnknownStation = errors.New("unknown station")

// MTA GTFS-RT feed URLs by line group
var defaultFeedURLs = map[string]string{
	"ace":     "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-ace",
	"bdfm":    "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-bdfm",
	"g":       "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-g",
	"jz":      "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-jz",
	"nqrw":    "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-nqrw",
	"l":       "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-l",
	"1234567": "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs",
	"si":      "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-si",
}

// routeToFeed maps route letters to their feeds. The station list uses a
// bare "S" for all three shuttles: 42 St runs in the numbered feed while
// Franklin Av and Rockaway Park run in the ACE feed.
var routeToFeed = map[string][]string{
	"A": {"ace"}, "C": {"ace"}, "E": {"ace"}, "H": {"ace"}, "FS": {"ace"},
	"B": {"bdfm"}, "D": {"bdfm"}, "F": {"bdfm"}, "M": {"bdfm"},
	"G": {"g"},
	"J": {"jz"}, "Z": {"jz"},
	"N": {"nqrw"}, "Q": {"nqrw"}, "R": {"nqrw"}, "W": {"nqrw"},
	"L": {"l"},
	"1": {"1234567"}, "2": {"1234567"}, "3": {"1234567"}, "4": {"1234567"},
	"5": {"1234567"}, "6": {"1234567"}, "7": {"1234567"}, "GS": {"1234567"},
	"SI": {"si"}, "SIR": {"si"}, "S": {"1234567", "ace"},
}

const defaultMaxRetries = 2

// SubwayService fetches real-time subway departures from the MTA feeds and
// reports them per station
type SubwayService struct {
	client        *http.Client
	directory     StationDirectory
	cache         cache.Store
	feedURLs      map[string]string
	apiKey        string
	maxRetries    uint64
	retryInterval time.Duration
}

// StationDirectory is the part of the station directory the feed parser needs
type StationDirectory interface {
	Get(stationID string) (models.Station, bool)
	GetByGTFSStopID(stopID string) (models.Station, bool)
}

// NewSubwayService creates a new subway service. store may be nil.
func NewSubwayService(directory StationDirectory, store cache.Store, timeout time.Duration) *SubwayService {
	return &SubwayService{
		client: &http.Client{
			Timeout: timeout,
		},
		directory:     directory,
		cache:         store,
		feedURLs:      defaultFeedURLs,
		maxRetries:    defaultMaxRetries,
		retryInterval: 500 * time.Millisecond,
	}
}

// WithAPIKey returns a copy of the service that authenticates with key
func (s *SubwayService) WithAPIKey(key string) departures.Fetcher {
	cp := *s
	cp.apiKey = key
	return &cp
}

// WithFeedURLs returns a copy of the service reading from the given feeds
func (s *SubwayService) WithFeedURLs(urls map[string]string) *SubwayService {
	cp := *s
	cp.feedURLs = urls
	return &cp
}

// WithRetry returns a copy of the service with a different retry policy
func (s *SubwayService) WithRetry(maxRetries uint64, interval time.Duration) *SubwayService {
	cp := *s
	cp.maxRetries = maxRetries
	cp.retryInterval = interval
	return &cp
}

// Departures returns one response per station, in request order. Any unknown
// station or feed failure fails the whole request.
func (s *SubwayService) Departures(ctx context.Context, stationIDs []string) ([]*models.StationResponse, error) {
	stations := make([]models.Station, len(stationIDs))
	for i, id := range stationIDs {
		st, ok := s.directory.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStation, id)
		}
		stations[i] = st
	}

	seen := make(map[string]bool)
	var feedNames []string
	for _, st := range stations {
		for _, name := range feedsForRoutes(st.Routes) {
			if !seen[name] {
				seen[name] = true
				feedNames = append(feedNames, name)
			}
		}
	}
	sort.Strings(feedNames)

	feeds, err := s.fetchFeeds(ctx, feedNames)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.StationResponse, len(stations))
	for i, st := range stations {
		resp := &models.StationResponse{Lines: []models.Line{}}
		for _, name := range feedsForRoutes(st.Routes) {
			resp.Lines = append(resp.Lines, models.Line{
				Name:       name,
				Departures: s.parseDepartures(feeds[name], st.GTFSStopID),
			})
		}
		responses[i] = resp
	}

	return responses, nil
}

// fetchFeeds downloads the named feeds concurrently
func (s *SubwayService) fetchFeeds(ctx context.Context, names []string) (map[string]*gtfs.FeedMessage, error) {
	results := make([]*gtfs.FeedMessage, len(names))

	p := pool.New().WithContext(ctx).WithCancelOnError()
	for i, name := range names {
		p.Go(func(ctx context.Context) error {
			feed, err := s.fetchFeed(ctx, name)
			if err != nil {
				return err
			}
			results[i] = feed
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	feeds := make(map[string]*gtfs.FeedMessage, len(names))
	for i, name := range names {
		feeds[name] = results[i]
	}
	return feeds, nil
}

func (s *SubwayService) fetchFeed(ctx context.Context, name string) (*gtfs.FeedMessage, error) {
	url, ok := s.feedURLs[name]
	if !ok {
		return nil, fmt.Errorf("unknown feed: %s", name)
	}

	key := s.cacheKey(name)
	body, hit := s.cacheGet(ctx, key)
	if hit {
		metrics.FeedFetches.WithLabelValues(name, "cached").Inc()
	} else {
		var err error
		body, err = s.download(ctx, name, url)
		if err != nil {
			metrics.FeedFetches.WithLabelValues(name, "error").Inc()
			return nil, err
		}
		metrics.FeedFetches.WithLabelValues(name, "ok").Inc()
	}

	feed := &gtfs.FeedMessage{}
	if err := proto.Unmarshal(body, feed); err != nil {
		return nil, fmt.Errorf("parsing feed %s: %w", name, err)
	}

	if !hit && s.cache != nil {
		s.cache.Set(ctx, key, body)
	}
	return feed, nil
}

// cacheKey scopes cached feed bodies to the API key that downloaded them, so
// one caller's key never serves another caller's request.
func (s *SubwayService) cacheKey(name string) string {
	if s.apiKey == "" {
		return "feed:" + name
	}
	sum := sha256.Sum256([]byte(s.apiKey))
	return "feed:" + name + ":" + hex.EncodeToString(sum[:8])
}

func (s *SubwayService) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(ctx, key)
}

// download fetches a feed body, retrying transient failures
func (s *SubwayService) download(ctx context.Context, name, url string) ([]byte, error) {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = s.retryInterval
	b := backoff.WithContext(backoff.WithMaxRetries(eb, s.maxRetries), ctx)

	return backoff.RetryNotifyWithData(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("building request: %w", err))
		}
		if s.apiKey != "" {
			req.Header.Set("x-api-key", s.apiKey)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching feed %s: %w", name, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("feed %s returned status %d", name, resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("reading feed %s: %w", name, err)
		}
		return body, nil
	}, b, func(err error, wait time.Duration) {
		log.Debug().Err(err).Str("feed", name).Dur("retry_in", wait).Msg("Feed fetch failed, retrying")
	})
}

// parseDepartures extracts the departures at one GTFS parent stop
func (s *SubwayService) parseDepartures(feed *gtfs.FeedMessage, gtfsStopID string) models.Departures {
	deps := models.Departures{
		S: []models.RawDeparture{},
		N: []models.RawDeparture{},
	}
	if feed == nil || gtfsStopID == "" {
		return deps
	}

	northID := gtfsStopID + "N"
	southID := gtfsStopID + "S"

	for _, entity := range feed.GetEntity() {
		tripUpdate := entity.GetTripUpdate()
		if tripUpdate == nil {
			continue
		}

		updates := tripUpdate.GetStopTimeUpdate()
		if len(updates) == 0 {
			continue
		}

		routeID := tripUpdate.GetTrip().GetRouteId()
		destination := s.destinationFor(updates[len(updates)-1].GetStopId())

		for _, stopTimeUpdate := range updates {
			stopID := stopTimeUpdate.GetStopId()
			if stopID != northID && stopID != southID {
				continue
			}

			when := stopTimeUpdate.GetArrival().GetTime()
			if when == 0 {
				when = stopTimeUpdate.GetDeparture().GetTime()
			}
			if when == 0 {
				continue
			}

			d := models.RawDeparture{
				RouteID:              routeID,
				DestinationStationID: destination,
				Time:                 when,
			}
			if stopID == northID {
				deps.N = append(deps.N, d)
			} else {
				deps.S = append(deps.S, d)
			}
		}
	}

	sortDepartures(deps.N)
	sortDepartures(deps.S)

	return deps
}

// destinationFor maps a trip's final GTFS stop to a station-scheme id.
// Unknown stops map to "" and are dropped later by the classifier.
func (s *SubwayService) destinationFor(stopID string) string {
	parent := stopID
	if strings.HasSuffix(parent, "N") || strings.HasSuffix(parent, "S") {
		parent = parent[:len(parent)-1]
	}
	if st, ok := s.directory.GetByGTFSStopID(parent); ok {
		return st.StationID
	}
	return ""
}

func feedsForRoutes(routes []string) []string {
	seen := make(map[string]bool)
	var feeds []string
	for _, route := range routes {
		for _, feed := range routeToFeed[strings.ToUpper(route)] {
			if !seen[feed] {
				seen[feed] = true
				feeds = append(feeds, feed)
			}
		}
	}
	sort.Strings(feeds)
	return feeds
}

func sortDepartures(deps []models.RawDeparture) {
	sort.Slice(deps, func(i, j int) bool {
		return deps[i].Time < deps[j].Time
	})
}
