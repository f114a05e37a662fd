// Package server wires the archivist service: the profile store, the
// session store, the fragment weaver, the engine, and the HTTP transport.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/platform/config"
	apihttp "github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/api/http"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/engine"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/storage"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/storage/sessionstore"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/storage/sqlite"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/weaver"
)

// serverEnv holds env-parsed configuration for the archivist server.
type serverEnv struct {
	DBPath         string        `env:"ARCHIVIST_DB_PATH"`
	SessionStore   string        `env:"ARCHIVIST_SESSION_STORE"`
	SessionTTL     time.Duration `env:"ARCHIVIST_SESSION_TTL"`
	RedisAddr      string        `env:"ARCHIVIST_REDIS_ADDR"`
	RedisPassword  string        `env:"ARCHIVIST_REDIS_PASSWORD"`
	RedisDB        int           `env:"ARCHIVIST_REDIS_DB"`
	GeminiAPIKey   string        `env:"ARCHIVIST_GEMINI_API_KEY"`
	GeminiModel    string        `env:"ARCHIVIST_GEMINI_MODEL"`
	AllowedOrigins []string      `env:"ARCHIVIST_ALLOWED_ORIGINS" envSeparator:","`
}

func loadServerEnv() serverEnv {
	var cfg serverEnv
	_ = config.ParseEnv(&cfg)
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join("data", "archivist.db")
	}
	if cfg.SessionStore == "" {
		cfg.SessionStore = string(sessionstore.StoreTypeMemory)
	}
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	return cfg
}

// Server hosts the archivist service over HTTP.
type Server struct {
	listener    net.Listener
	httpServer  *http.Server
	store       *sqlite.Store
	sessions    storage.SessionStore
	redisClient *redis.Client
	closeOnce   sync.Once
}

// New creates a configured archivist server listening on the provided port.
func New(ctx context.Context, port int) (*Server, error) {
	return NewWithAddr(ctx, fmt.Sprintf(":%d", port))
}

// NewWithAddr creates a configured archivist server listening on the
// provided address.
func NewWithAddr(ctx context.Context, addr string) (*Server, error) {
	srvEnv := loadServerEnv()

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	store, err := openProfileStore(srvEnv.DBPath)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	sessions, redisClient, err := openSessionStore(srvEnv)
	if err != nil {
		_ = listener.Close()
		_ = store.Close()
		return nil, err
	}

	generator, err := openWeaver(ctx, srvEnv)
	if err != nil {
		_ = listener.Close()
		_ = store.Close()
		_ = sessions.Close()
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, err
	}

	var placeholder engine.Placeholder
	_ = config.ParseEnv(&placeholder)

	eng := engine.New(engine.Config{
		Profiles:    store,
		Sessions:    sessions,
		Generator:   generator,
		Placeholder: placeholder,
		Logger:      slog.Default(),
	})

	router := apihttp.NewRouter(apihttp.NewHandlers(eng, slog.Default()), apihttp.RouterConfig{
		AllowedOrigins: srvEnv.AllowedOrigins,
		ServiceName:    "archivist",
	})

	return &Server{
		listener: listener,
		httpServer: &http.Server{
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		store:       store,
		sessions:    sessions,
		redisClient: redisClient,
	}, nil
}

// Addr returns the listener address for the archivist server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves an archivist server until the context ends.
func Run(ctx context.Context, port int) error {
	server, err := New(ctx, port)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the archivist server and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("archivist server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		err := <-serveErr
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}

	s.closeOnce.Do(func() {
		if s.httpServer != nil {
			_ = s.httpServer.Close()
		}
		if s.listener != nil {
			if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
				log.Printf("close archivist listener: %v", err)
			}
		}
		if s.sessions != nil {
			if err := s.sessions.Close(); err != nil {
				log.Printf("close session store: %v", err)
			}
		}
		if s.redisClient != nil {
			if err := s.redisClient.Close(); err != nil {
				log.Printf("close redis client: %v", err)
			}
		}
		if s.store != nil {
			if err := s.store.Close(); err != nil {
				log.Printf("close profile store: %v", err)
			}
		}
	})
}

func openProfileStore(path string) (*sqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profile sqlite store: %w", err)
	}
	return store, nil
}

func openSessionStore(srvEnv serverEnv) (storage.SessionStore, *redis.Client, error) {
	switch sessionstore.StoreType(srvEnv.SessionStore) {
	case sessionstore.StoreTypeMemory:
		sessions, err := sessionstore.New(sessionstore.StoreTypeMemory)
		if err != nil {
			return nil, nil, fmt.Errorf("open memory session store: %w", err)
		}
		return sessions, nil, nil

	case sessionstore.StoreTypeRedis:
		if strings.TrimSpace(srvEnv.RedisAddr) == "" {
			return nil, nil, errors.New("ARCHIVIST_REDIS_ADDR is required for the redis session store")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     srvEnv.RedisAddr,
			Password: srvEnv.RedisPassword,
			DB:       srvEnv.RedisDB,
		})
		sessions, err := sessionstore.New(sessionstore.StoreTypeRedis,
			sessionstore.WithRedisClient(client),
			sessionstore.WithRedisTTL(srvEnv.SessionTTL),
		)
		if err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("open redis session store: %w", err)
		}
		return sessions, client, nil

	default:
		return nil, nil, fmt.Errorf("unknown session store type %q", srvEnv.SessionStore)
	}
}

// openWeaver builds the Gemini-backed fragment weaver. A missing API key is
// not an error: the engine serves placeholder content instead, so the
// service stays playable in local development.
func openWeaver(ctx context.Context, srvEnv serverEnv) (weaver.Generator, error) {
	if strings.TrimSpace(srvEnv.GeminiAPIKey) == "" {
		slog.Warn("no gemini api key configured; serving placeholder fragments")
		return nil, nil
	}
	gw, err := weaver.NewGeminiWeaver(ctx, srvEnv.GeminiAPIKey, srvEnv.GeminiModel)
	if err != nil {
		return nil, fmt.Errorf("build gemini weaver: %w", err)
	}
	return gw, nil
}
