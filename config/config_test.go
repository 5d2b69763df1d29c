package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/proxy-health-gateway/config"
)

func setenv(key, value string) {
	Expect(os.Setenv(key, value)).To(Succeed())
	DeferCleanup(os.Unsetenv, key)
}

var _ = Describe("Config", func() {
	var (
		tempDir string
		origDir string
	)

	BeforeEach(func() {
		var err error
		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		tempDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())

		Expect(os.Chdir(tempDir)).To(Succeed())
	})

	AfterEach(func() {
		Expect(os.Chdir(origDir)).To(Succeed())
		os.RemoveAll(tempDir)
	})

	Describe("Load", func() {
		Context("without a config file", func() {
			It("should use defaults", func() {
				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())

				Expect(cfg.Server.Address).To(Equal(":8080"))
				Expect(cfg.Server.Environment).To(Equal(config.EnvDev))
				Expect(cfg.Upstream.URL).To(Equal(config.DefaultUpstreamURL))
				Expect(cfg.UpstreamTimeout()).To(Equal(10 * time.Second))
				Expect(cfg.Gateway.AllowedMethods).To(Equal([]string{"GET"}))
				Expect(cfg.CORS.Enabled).To(BeTrue())
				Expect(cfg.CORS.AllowOrigin).To(Equal("*"))
				Expect(cfg.CORS.AllowMethods).To(Equal([]string{"GET", "HEAD", "POST", "OPTIONS"}))
				Expect(cfg.CORS.MaxAge).To(Equal(86400))
				Expect(cfg.HealthCheck.Enabled).To(BeFalse())
				Expect(cfg.Metrics.Enabled).To(BeTrue())
				Expect(cfg.Logging.Level).To(Equal(config.LogLevelInfo))
			})
		})

		Context("with a config file", func() {
			BeforeEach(func() {
				configContent := `
server:
  address: ":9090"
  environment: "prod"
  write_timeout: "45s"

upstream:
  url: "https://checker.example.com/api/v1/check"
  timeout: "3s"

gateway:
  allowed_methods: ["GET", "HEAD"]

cors:
  enabled: false

health_check:
  enabled: true
  interval: "1m"

logging:
  level: "debug"
`
				Expect(os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0644)).To(Succeed())
			})

			It("should load configuration successfully", func() {
				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())

				Expect(cfg.Server.Address).To(Equal(":9090"))
				Expect(cfg.Server.Environment).To(Equal(config.EnvProd))
				Expect(cfg.WriteTimeout()).To(Equal(45 * time.Second))
				Expect(cfg.Upstream.URL).To(Equal("https://checker.example.com/api/v1/check"))
				Expect(cfg.UpstreamTimeout()).To(Equal(3 * time.Second))
				Expect(cfg.Gateway.AllowedMethods).To(Equal([]string{"GET", "HEAD"}))
				Expect(cfg.CORS.Enabled).To(BeFalse())
				Expect(cfg.HealthCheck.Enabled).To(BeTrue())
				Expect(cfg.HealthCheckInterval()).To(Equal(time.Minute))
				Expect(cfg.Logging.Level).To(Equal(config.LogLevelDebug))
			})

			It("should let environment variables override the file", func() {
				setenv("UPSTREAM_TIMEOUT", "0s")
				setenv("GATEWAY_ALLOWED_METHODS", "GET,POST")

				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.UpstreamTimeout()).To(BeZero())
				Expect(cfg.Gateway.AllowedMethods).To(Equal([]string{"GET", "POST"}))
			})

			It("should load an explicit file path", func() {
				other := filepath.Join(tempDir, "other.yaml")
				Expect(os.WriteFile(other, []byte("upstream:\n  timeout: \"7s\"\n"), 0644)).To(Succeed())

				cfg, err := config.LoadFile(other)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.UpstreamTimeout()).To(Equal(7 * time.Second))
			})
		})

		Context("with an explicit file that does not exist", func() {
			It("should fail", func() {
				_, err := config.LoadFile(filepath.Join(tempDir, "missing.yaml"))
				Expect(err).To(HaveOccurred())
			})
		})

		Context("with a .env file", func() {
			It("should read variables from it", func() {
				DeferCleanup(os.Unsetenv, "UPSTREAM_URL")
				Expect(os.WriteFile(filepath.Join(tempDir, ".env"),
					[]byte("UPSTREAM_URL=http://localhost:9000/check\n"), 0644)).To(Succeed())

				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Upstream.URL).To(Equal("http://localhost:9000/check"))
			})

			It("should not override real environment variables", func() {
				setenv("UPSTREAM_URL", "http://from-env:9000/check")
				Expect(os.WriteFile(filepath.Join(tempDir, ".env"),
					[]byte("UPSTREAM_URL=http://from-dotenv:9000/check\n"), 0644)).To(Succeed())

				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Upstream.URL).To(Equal("http://from-env:9000/check"))
			})
		})

		Context("with invalid environment values", func() {
			DescribeTable("should reject",
				func(key, value string) {
					setenv(key, value)
					_, err := config.Load()
					Expect(err).To(HaveOccurred())
				},
				Entry("non-http upstream", "UPSTREAM_URL", "ftp://example.com"),
				Entry("upstream without host", "UPSTREAM_URL", "https://"),
				Entry("bad upstream timeout", "UPSTREAM_TIMEOUT", "soon"),
				Entry("negative upstream timeout", "UPSTREAM_TIMEOUT", "-1s"),
				Entry("upstream timeout beyond write timeout", "UPSTREAM_TIMEOUT", "1m"),
				Entry("unknown method", "GATEWAY_ALLOWED_METHODS", "FETCH"),
				Entry("lower case method", "GATEWAY_ALLOWED_METHODS", "get"),
				Entry("unknown environment", "SERVER_ENVIRONMENT", "qa"),
				Entry("bad address", "SERVER_ADDRESS", "nope"),
				Entry("unknown log level", "LOGGING_LEVEL", "verbose"),
				Entry("zero write timeout", "SERVER_WRITE_TIMEOUT", "0s"),
			)
		})
	})
})

var _ = Describe("Validate", func() {
	var cfg *config.Config

	BeforeEach(func() {
		cfg = &config.Config{
			Server: config.ServerConfig{
				Address:         ":8080",
				Environment:     config.EnvDev,
				ReadTimeout:     "15s",
				WriteTimeout:    "30s",
				IdleTimeout:     "60s",
				ShutdownTimeout: "5s",
			},
			Upstream: config.UpstreamConfig{
				URL:          config.DefaultUpstreamURL,
				Timeout:      "10s",
				MaxBodyBytes: 1024,
			},
			Gateway: config.GatewayConfig{AllowedMethods: []string{"GET"}},
			Logging: config.LoggingConfig{Level: config.LogLevelInfo},
		}
	})

	It("should accept a minimal configuration", func() {
		Expect(cfg.Validate()).To(Succeed())
	})

	It("should allow an unbounded upstream call", func() {
		cfg.Upstream.Timeout = "0s"
		Expect(cfg.Validate()).To(Succeed())
	})

	It("should only validate the health check when enabled", func() {
		cfg.HealthCheck.Interval = "never"
		Expect(cfg.Validate()).To(Succeed())

		cfg.HealthCheck.Enabled = true
		Expect(cfg.Validate()).NotTo(Succeed())
	})

	It("should require CORS settings when enabled", func() {
		cfg.CORS.Enabled = true
		Expect(cfg.Validate()).NotTo(Succeed())

		cfg.CORS.AllowOrigin = "*"
		cfg.CORS.AllowMethods = []string{"GET", "OPTIONS"}
		Expect(cfg.Validate()).To(Succeed())
	})

	It("should require a metrics buffer when enabled", func() {
		cfg.Metrics.Enabled = true
		Expect(cfg.Validate()).NotTo(Succeed())

		cfg.Metrics.BufferSize = 10
		Expect(cfg.Validate()).To(Succeed())
	})

	It("should reject an empty method list", func() {
		cfg.Gateway.AllowedMethods = nil
		Expect(cfg.Validate()).NotTo(Succeed())
	})
})
