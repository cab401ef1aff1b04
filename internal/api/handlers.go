package api

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Miscodings/nyc-transit-hub/internal/alerts"
	"github.com/Miscodings/nyc-transit-hub/internal/arrivals"
	"github.com/Miscodings/nyc-transit-hub/internal/cache"
	"github.com/Miscodings/nyc-transit-hub/internal/config"
	"github.com/Miscodings/nyc-transit-hub/internal/db"
	"github.com/Miscodings/nyc-transit-hub/internal/feed"
	"github.com/Miscodings/nyc-transit-hub/internal/gtfsstatic"
	"github.com/Miscodings/nyc-transit-hub/internal/models"
	"github.com/Miscodings/nyc-transit-hub/internal/status"
)

// Handlers carries the dependencies the endpoints need. The route and
// station catalogs are loaded once at startup and injected here.
type Handlers struct {
	feeds       *feed.Client
	feedURLs    map[string]string
	alertsURL   string
	static      *gtfsstatic.Downloader
	store       status.Store
	pool        *pgxpool.Pool
	routes      []models.RouteInfo
	stations    []models.Station
	topologyTTL time.Duration
}

func NewHandlers(cfg *config.Config, client *feed.Client, static *gtfsstatic.Downloader,
	store status.Store, pool *pgxpool.Pool, routes []models.RouteInfo, stations []models.Station) *Handlers {
	return &Handlers{
		feeds:       client,
		feedURLs:    cfg.Feeds,
		alertsURL:   cfg.Alerts.URL,
		static:      static,
		store:       store,
		pool:        pool,
		routes:      routes,
		stations:    stations,
		topologyTTL: cache.LoadConfigFromEnv().TTL,
	}
}

// ServiceStatus handles GET /api/service-status. A failed alerts fetch
// degrades to "no known alerts" (all routes good); only a persistence
// failure triggers the cached-snapshot fallback.
func (h *Handlers) ServiceStatus(c *fiber.Ctx) error {
	ctx := c.Context()

	res := h.feeds.FetchResult(ctx, "alerts", h.alertsURL)
	routeAlerts := alerts.Classify(res.Feed)
	statuses := status.Merge(h.routes, routeAlerts)

	if err := h.store.Upsert(ctx, statuses); err != nil {
		log.Printf("Failed to persist service status: %v", err)

		cached, cerr := h.store.ReadAll(ctx)
		if cerr == nil && len(cached) > 0 {
			return c.JSON(fiber.Map{
				"success": true,
				"data":    cached,
				"cached":  true,
			})
		}
		if cerr != nil {
			log.Printf("Failed to read status cache: %v", cerr)
		}

		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "service status unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       statuses,
		"updated_at": time.Now().Format(time.RFC3339),
	})
}

// Arrivals handles GET /api/arrivals/:station_id. All realtime feeds
// are fetched concurrently; feeds that fail contribute no arrivals.
func (h *Handlers) Arrivals(c *fiber.Ctx) error {
	stationID := c.Params("station_id")
	if stationID == "" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "station_id required",
		})
	}

	results := h.feeds.FetchAll(c.Context(), h.feedURLs)
	list := arrivals.Extract(results, stationID, time.Now())

	return c.JSON(fiber.Map{
		"success":    true,
		"station_id": stationID,
		"arrivals":   list,
	})
}

// RoutePolylines handles GET /api/route-polylines. The topology
// snapshot is served from Redis when fresh; otherwise it is rebuilt
// from the cached archive. Degraded static input yields empty routes
// and stops, never an error response.
func (h *Handlers) RoutePolylines(c *fiber.Ctx) error {
	topo := h.loadTopology(c.Context())

	return c.JSON(fiber.Map{
		"success":    true,
		"routes":     topo.Routes,
		"stops":      topo.Stops,
		"updated_at": time.Now().Format(time.RFC3339),
	})
}

// loadTopology returns the topology snapshot, from cache when
// possible. Cache errors degrade to a rebuild; rebuild errors degrade
// to an empty topology.
func (h *Handlers) loadTopology(ctx context.Context) *gtfsstatic.Topology {
	topo, err := cache.GetTopology(ctx)
	if err != nil {
		log.Printf("Topology cache read failed: %v", err)
	} else if topo != nil {
		return topo
	}

	lockKey := cache.LockKey(cache.TopologyKey)
	acquired, err := cache.AcquireLock(ctx, lockKey, 30*time.Second)
	if err != nil {
		log.Printf("Failed to acquire topology lock: %v", err)
		// Continue without lock (degrade gracefully)
	} else if !acquired {
		// Another request is rebuilding; wait for its result.
		topo, err := cache.WaitForTopology(ctx, 10*time.Second)
		if err == nil && topo != nil {
			return topo
		}
	}

	defer func() {
		if acquired {
			cache.ReleaseLock(ctx, lockKey)
		}
	}()

	topo = h.buildTopology(ctx)

	if err := cache.SetTopology(ctx, topo, h.topologyTTL); err != nil {
		log.Printf("Failed to cache topology: %v", err)
	}

	return topo
}

// buildTopology fetches/reuses the archive and derives the topology.
func (h *Handlers) buildTopology(ctx context.Context) *gtfsstatic.Topology {
	path, err := h.static.Ensure(ctx, false)
	if err != nil {
		log.Printf("GTFS static unavailable: %v", err)
		return gtfsstatic.EmptyTopology()
	}

	staticFeed, err := gtfsstatic.ParseArchive(path)
	if err != nil {
		log.Printf("GTFS static parse failed: %v", err)
		return gtfsstatic.EmptyTopology()
	}

	return gtfsstatic.BuildTopology(staticFeed)
}

// Stations handles GET /api/stations: the fixed reference catalog.
func (h *Handlers) Stations(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.stations,
	})
}

// Health handles the /api/health endpoint
func (h *Handlers) Health(c *fiber.Ctx) error {
	ctx := c.Context()

	dbErr := db.HealthCheck(ctx)
	dbStatus := "ok"
	if dbErr != nil {
		dbStatus = dbErr.Error()
	}

	redisErr := cache.HealthCheck(ctx)
	redisStatus := "ok"
	if redisErr != nil {
		redisStatus = redisErr.Error()
	}

	// Redis is a soft dependency: requests degrade without it.
	healthStatus := "healthy"
	httpStatus := 200
	if dbErr != nil {
		healthStatus = "unhealthy"
		httpStatus = 503
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":    healthStatus,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
	})
}
