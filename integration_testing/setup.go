//go:build integration

package integration_testing

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/2beens/quotegen/internal"
	"github.com/2beens/quotegen/internal/config"

	"github.com/go-redis/redis/v8"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

const (
	serverPort      = 9000
	serverHost      = "localhost"
	metricsPort     = "9102"
	searchRateLimit = 3
)

var (
	serverEndpoint  = fmt.Sprintf("http://%s:%d", serverHost, serverPort)
	metricsEndpoint = fmt.Sprintf("http://%s:%s/metrics", serverHost, metricsPort)
)

type Suite struct {
	dockerPool *dockertest.Pool
	server     *internal.Server
	teardown   []func()
}

func newSuite(ctx context.Context) (_ *Suite, err error) {
	suite := &Suite{
		teardown: make([]func(), 0),
	}
	defer func() {
		if err != nil {
			suite.cleanup()
		}
	}()

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	suite.dockerPool, err = dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("could not create new dockertest pool: %w", err)
	}

	// uses pool to try to connect to Docker
	if err = suite.dockerPool.Client.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping dockertest pool: %w", err)
	}

	redisPort, err := suite.redisSetup(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to setup redis: %w", err)
	}

	cfg := getTestConfig(redisPort)
	suite.server, err = internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			VersionInfo:             "test-version-info",
			RedisPassword:           "",
			HoneycombTracingEnabled: false,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("new server: %w", err)
	}

	suite.server.Serve(cfg.Host, cfg.Port)
	if err := waitForServer(ctx); err != nil {
		return nil, err
	}

	return suite, nil
}

func (s *Suite) cleanup() {
	if s.server != nil {
		s.server.GracefulShutdown()
	}
	for _, teardown := range s.teardown {
		teardown()
	}
}

func getTestConfig(redisPort string) *config.Config {
	cfg, err := config.Parse("development", fmt.Sprintf(`
[development]
host = %q
port = %d
log_level = "debug"
presentation_delay_ms = 0
redis_host = "localhost"
redis_port = %q
search_rate_limit_per_min = %d
prometheus_metrics_port = %q
`, serverHost, serverPort, redisPort, searchRateLimit, metricsPort))
	if err != nil {
		panic(err)
	}
	return cfg
}

func (s *Suite) redisSetup(ctx context.Context) (string, error) {
	redisResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return "", fmt.Errorf("run redis: %w", err)
	}

	s.teardown = append(s.teardown, func() {
		_ = redisResource.Close()
	})

	redisPort := redisResource.GetPort("6379/tcp")
	rdb := redis.NewClient(&redis.Options{
		Addr: net.JoinHostPort("localhost", redisPort),
	})
	defer func() {
		_ = rdb.Close()
	}()

	if err := s.dockerPool.Retry(func() error {
		return rdb.Ping(ctx).Err()
	}); err != nil {
		return "", fmt.Errorf("redis not ready: %w", err)
	}

	return redisPort, nil
}

func waitForServer(ctx context.Context) error {
	client := &http.Client{Timeout: time.Second}
	healthURL := serverEndpoint + "/health"

	for i := 0; i < 50; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
		if err != nil {
			return err
		}
		if resp, err := client.Do(req); err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("server not ready on port %d", serverPort)
}
