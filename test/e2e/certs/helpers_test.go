package certs_test

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcexec "github.com/testcontainers/testcontainers-go/exec"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/usapupgrade/certs/pkg/certsdk"
	"github.com/usapupgrade/certs/pkg/jwtx"
)

/*
 * Common constants and helper functions for certificates service end-to-end
 * tests: container setup, learner tokens and seeding through the public API.
 */

const (
	testImageName = "usapupgrade-certs-test:latest"

	jwtSecret = "e2e-supabase-jwt-secret-with-at-least-32-characters"
	jwtIssuer = "https://e2e.supabase.co/auth/v1"
)

// TestMain builds the Docker image once before all tests and removes it
// afterwards. -short skips the suite.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		fmt.Fprintln(os.Stdout, "skipping e2e tests in short mode")
		os.Exit(0)
	}

	fmt.Fprintf(os.Stdout, "Building Certificates Service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Certificates Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/certs/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	cmd := exec.CommandContext(context.Background(), "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // image might not exist
}

type certsContainer struct {
	testcontainers.Container
	BaseURL string
}

// setupCertsContainer starts the service with relaxed rate limits unless
// defaultLimits is set.
func setupCertsContainer(t *testing.T, defaultLimits bool) *certsContainer {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"SUPABASE_JWT_SECRET": jwtSecret,
		"JWT_ISSUER":          jwtIssuer,
		"CERT_HASH_KEY":       "e2e-hash-key",
		"VERIFY_BASE_URL":     "https://e2e.example.com/verify",
		"ENV":                 "test",
		"LOG_LEVEL":           "info",
		"LOG_FORMAT":          "json",
	}
	if !defaultLimits {
		// Seeding a learner takes well over a hundred writes
		for _, profile := range []string{"STRICT", "MODERATE", "LENIENT", "PUBLIC"} {
			env["RATELIMIT_"+profile+"_REQUESTS"] = "10000"
			env["RATELIMIT_"+profile+"_BURST"] = "10000"
		}
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        testImageName,
			ExposedPorts: []string{"8080/tcp"},
			Env:          env,
			WaitingFor: wait.ForHTTP("/livez").
				WithPort("8080/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	return &certsContainer{
		Container: container,
		BaseURL:   fmt.Sprintf("http://%s:%s", host, mappedPort.Port()),
	}
}

// certctl runs the operator CLI inside the container and returns its output.
func (c *certsContainer) certctl(t *testing.T, args ...string) string {
	t.Helper()

	code, reader, err := c.Exec(t.Context(), append([]string{"certctl"}, args...), tcexec.Multiplexed())
	require.NoError(t, err)

	out, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Zero(t, code, "certctl %v: %s", args, out)
	return string(out)
}

// learnerToken mints a Supabase-style access token for a fresh learner.
func learnerToken(t *testing.T) (userID, token string) {
	t.Helper()

	signer, err := jwtx.NewSignerHS256([]byte(jwtSecret))
	require.NoError(t, err)

	userID = uuid.NewString()
	token, err = signer.Sign(jwtx.NewSessionClaims(userID, userID[:8]+"@example.com", jwtIssuer, time.Hour, time.Now()))
	require.NoError(t, err)
	return userID, token
}

// completeCourse records every lesson for the learner behind client.
func completeCourse(t *testing.T, client *certsdk.Client) {
	t.Helper()

	for i := 1; i <= 120; i++ {
		_, err := client.CompleteLesson(t.Context(), fmt.Sprintf("lesson-%03d", i))
		require.NoError(t, err, "lesson %d", i)
	}
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health certsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
}
