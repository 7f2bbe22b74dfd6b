// Command solver runs the inference core as a long-lived process: a debug
// HTTP surface for submitting observation batches and inspecting metrics,
// an optional periodic checkpoint tick, and graceful shutdown that saves a
// final checkpoint before exiting.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/kestrelbyte/minecore/internal/checkpoint"
	"github.com/kestrelbyte/minecore/internal/checkpoint/jsonfile"
	"github.com/kestrelbyte/minecore/internal/checkpoint/postgres"
	"github.com/kestrelbyte/minecore/internal/config"
	"github.com/kestrelbyte/minecore/internal/logx"
	"github.com/kestrelbyte/minecore/internal/model"
	"github.com/kestrelbyte/minecore/internal/pipeline"
	"github.com/kestrelbyte/minecore/internal/stats"
	"github.com/kestrelbyte/minecore/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logx.New(cfg.Logging)
	logx.SetDefault(logger)
	logger.Info("starting solver", nil)

	store := buildCheckpointStore(cfg.Checkpoint)

	grid := storage.New()
	if store != nil {
		if err := restoreCheckpoint(context.Background(), grid, store); err != nil {
			logger.Error("failed to restore checkpoint", err, nil)
			os.Exit(1)
		}
	}

	statsProvider := stats.NewProvider()
	orch := pipeline.New(grid, cfg.Solver, statsProvider, logger)

	scheduler := cron.New()
	if store != nil && cfg.Debug.TickPeriod > 0 {
		spec := fmt.Sprintf("@every %s", cfg.Debug.TickPeriod)
		if _, err := scheduler.AddFunc(spec, func() {
			if err := saveCheckpoint(context.Background(), grid, store); err != nil {
				logger.Error("periodic checkpoint save failed", err, nil)
			}
		}); err != nil {
			logger.Error("failed to schedule checkpoint tick", err, nil)
		} else {
			scheduler.Start()
			defer scheduler.Stop()
		}
	}

	var server *http.Server
	if cfg.Debug.HTTPAddr != "" {
		server = newDebugServer(cfg.Debug.HTTPAddr, orch, statsProvider, logger)
		go func() {
			logger.Info("debug HTTP server starting", map[string]interface{}{"addr": cfg.Debug.HTTPAddr})
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("debug HTTP server error", err, nil)
			}
		}()
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	<-shutdown

	logger.Info("shutdown initiated", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if server != nil {
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("debug HTTP server shutdown failed", err, nil)
		}
	}

	if store != nil {
		if err := saveCheckpoint(ctx, grid, store); err != nil {
			logger.Error("final checkpoint save failed", err, nil)
		} else {
			logger.Info("final checkpoint saved", nil)
		}
	}

	logger.Info("solver stopped", nil)
}

func buildCheckpointStore(cfg config.CheckpointConfig) checkpoint.Store {
	switch cfg.Driver {
	case "jsonfile":
		return jsonfile.New(cfg.DSN)
	case "postgres":
		db := postgres.Open(cfg.DSN)
		s := postgres.NewStore(db, "default")
		if err := s.CreateSchema(context.Background()); err != nil {
			logx.Default().Error("failed to create checkpoint schema", err, nil)
		}
		return s
	default:
		return nil
	}
}

func restoreCheckpoint(ctx context.Context, grid *storage.Grid, store checkpoint.Store) error {
	state, err := store.Load(ctx)
	if err != nil {
		return err
	}
	if len(state.Cells) == 0 {
		return nil
	}

	upsert := model.NewUpsert()
	for _, c := range state.Cells {
		upsert.Put(c)
	}
	upsert.ToVisualizeAdd = append(upsert.ToVisualizeAdd, state.ToVisualize...)
	grid.ApplyUpsert(upsert)
	return nil
}

func saveCheckpoint(ctx context.Context, grid *storage.Grid, store checkpoint.Store) error {
	snap := grid.Snapshot()
	cells := make([]model.Cell, 0, snap.Len())
	for _, coord := range snap.KnownSet() {
		if c, ok := snap.Cell(coord); ok {
			cells = append(cells, c)
		}
	}
	return store.Save(ctx, checkpoint.State{Cells: cells, ToVisualize: snap.ToVisualizeSet()})
}

// observationRequest is the debug HTTP surface's wire format for one
// RunIteration call.
type observationRequest struct {
	Entries []struct {
		X            int  `json:"x"`
		Y            int  `json:"y"`
		RawState     int  `json:"raw_state"`
		LogicalState int  `json:"logical_state"`
		NumberValue  *int `json:"number_value,omitempty"`
	} `json:"entries"`
}

func newDebugServer(addr string, orch *pipeline.Orchestrator, statsProvider *stats.Provider, logger *logx.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	router.GET("/metrics", func(c *gin.Context) {
		snap := statsProvider.Snapshot(c.Request.Context())
		c.JSON(http.StatusOK, snap)
	})

	router.POST("/iterations", func(c *gin.Context) {
		var req observationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		iterationID := uuid.New().String()
		entries := make([]pipeline.ObservationEntry, len(req.Entries))
		for i, e := range req.Entries {
			entries[i] = pipeline.ObservationEntry{
				Coord:        model.Coord{X: e.X, Y: e.Y},
				RawState:     model.RawState(e.RawState),
				LogicalState: model.LogicalState(e.LogicalState),
				NumberValue:  e.NumberValue,
			}
		}

		result, err := orch.RunIteration(c.Request.Context(), entries)
		if err != nil {
			logger.Error("iteration failed", err, map[string]interface{}{"iteration_id": iterationID})
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "iteration_id": iterationID})
			return
		}

		logger.Info("iteration complete", map[string]interface{}{
			"iteration_id": iterationID,
			"decisions":    len(result.Decisions),
		})
		c.JSON(http.StatusOK, gin.H{"iteration_id": iterationID, "decisions": result.Decisions, "stats": result.Stats})
	})

	return &http.Server{Addr: addr, Handler: router, ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second}
}
