package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nash-core-poc/server/internal/agent/graph/advisors"
	"github.com/nash-core-poc/server/internal/agent/graph/advisors/advisortest"
	"github.com/nash-core-poc/server/internal/agent/model"
	"github.com/nash-core-poc/server/internal/physics"
)

var configKeys = []string{
	"ENVIRONMENT", "LOG_LEVEL", "HTTP_ADDR",
	"REDIS_URL", "REDIS_READ_TIMEOUT", "REDIS_WRITE_TIMEOUT", "REDIS_DIAL_TIMEOUT",
	"TRACING_ENABLED", "TRACING_ENDPOINT", "TRACING_INSECURE", "TRACING_SERVICE_NAME", "TRACING_SAMPLE_RATIO",
	"AGENT_MAX_STEPS", "AGENT_ADVISOR_TIMEOUT", "AGENT_CONTEXT_MAX_ENTRIES",
	"ADVISOR_PROVIDER", "ADVISOR_MODEL", "ADVISOR_MAX_TOKENS", "ADVISOR_TEMPERATURE",
	"GEMINI_API_KEY", "GEMINI_BASE_URL", "ANTHROPIC_API_KEY",
	"ESTIMATOR_CACHE_SIZE", "ESTIMATOR_SWEEP_CONCURRENCY", "MATERIALS_FILE", "SESSION_TTL", "SESSION_MEMORY_MAX_SESSIONS",
}

// cleanEnv unsets every config variable for the duration of the test.
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

type cmdResult struct {
	stdout string
	stderr string
	opts   *rootOptions
}

func runCmd(t *testing.T, factory AdvisorFactory, args ...string) (cmdResult, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd, opts := newRootCommand(factory)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--env-file", missingEnvFile(t), "--log-level", "error"}, args...))
	err := execute(context.Background(), cmd, opts)
	return cmdResult{stdout: out.String(), stderr: errOut.String(), opts: opts}, err
}

func run(t *testing.T, factory AdvisorFactory, args ...string) (string, error) {
	t.Helper()
	res, err := runCmd(t, factory, args...)
	return res.stdout, err
}

func TestLoadConfig_Defaults(t *testing.T) {
	cleanEnv(t)

	cfg, err := LoadConfig(missingEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultAgentConfig(), cfg.Agent)
	assert.Equal(t, "gemini", cfg.Advisor.Provider)
	assert.Equal(t, 256, cfg.Estimator.CacheSize)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, 1024, cfg.Session.MemoryMaxSessions)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	cleanEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("AGENT_MAX_STEPS=4\nADVISOR_PROVIDER=anthropic\nENVIRONMENT=prod\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Agent.MaxSteps)
	assert.Equal(t, "anthropic", cfg.Advisor.Provider)
	assert.True(t, cfg.Environment.IsProduction())
}

func TestLoadConfig_RejectsZeroSteps(t *testing.T) {
	cleanEnv(t)
	t.Setenv("AGENT_MAX_STEPS", "0")

	_, err := LoadConfig(missingEnvFile(t))
	assert.Error(t, err)
}

func TestSimulateCommand(t *testing.T) {
	cleanEnv(t)

	out, err := run(t, nil, "simulate", "--temperature", "300", "--diameter", "22", "--material", "silicon")
	require.NoError(t, err)

	var res physics.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, physics.StatusSuccess, res.Status)
	assert.InDelta(t, 32.63, res.K, 0.02)

	_, err = run(t, nil, "simulate", "--material", "unobtainium")
	assert.Error(t, err)

	out, err = run(t, nil, "simulate", "--temperature=-3")
	assert.Error(t, err)
	assert.Contains(t, out, `"status": "error"`)
}

func TestSweepCommand(t *testing.T) {
	cleanEnv(t)

	out, err := run(t, nil, "sweep", "--diameters", "22,100", "--props", `{"name":"Silicon"}`)
	require.NoError(t, err)

	var results []physics.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Less(t, results[0].K, results[1].K)
}

func TestMaterialsCommand_WithCatalogFile(t *testing.T) {
	cleanEnv(t)

	path := filepath.Join(t.TempDir(), "materials.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`default: Germanium
materials:
  - name: Diamond
    v_s: 12000
    theta_d: 2230
    a: 1.0e-46
    b: 5.0e-25
`), 0o600))
	t.Setenv("MATERIALS_FILE", path)

	out, err := run(t, nil, "materials")
	require.NoError(t, err)
	assert.Contains(t, out, "Diamond")
	assert.Contains(t, out, "* Germanium")
	assert.Contains(t, out, "  Silicon")
}

func TestAskCommand(t *testing.T) {
	cleanEnv(t)

	scripted := func(context.Context, model.AdvisorConfig) (advisors.Advisor, error) {
		return advisortest.NewScripted(
			`{"action":"simulate","T":300,"D":22,"material_props":{"name":"Silicon"}}`,
			`{"action":"answer","text":"Plausible: boundary scattering dominates."}`,
		), nil
	}

	out, err := run(t, scripted, "ask", "22 nm silicon nanowire at 300 K")
	require.NoError(t, err)
	assert.Contains(t, out, "Observation:")
	assert.Contains(t, out, "Answer (answered, 2 steps): Plausible: boundary scattering dominates.")
}

func TestAskCommand_MissingCredential(t *testing.T) {
	cleanEnv(t)
	t.Setenv("ADVISOR_PROVIDER", "anthropic")

	out, err := run(t, nil, "ask", "--json", "22 nm silicon")
	require.NoError(t, err)

	var res model.RunResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, model.OutcomeAdvisorUnavailable, res.Outcome)
	assert.Contains(t, res.Answer, "ANTHROPIC_API_KEY not set")
}

func TestExecute_ClosesAppWhenCommandFails(t *testing.T) {
	cleanEnv(t)
	mr := miniredis.RunT(t)
	t.Setenv("REDIS_URL", "redis://"+mr.Addr())

	res, err := runCmd(t, nil, "simulate", "--material", "unobtainium")
	require.Error(t, err)
	require.NotNil(t, res.opts.app)
	require.NotNil(t, res.opts.app.redis)

	err = res.opts.app.redis.Ping(context.Background()).Err()
	assert.ErrorIs(t, err, goredis.ErrClosed)
}

func scriptedAnswer(context.Context, model.AdvisorConfig) (advisors.Advisor, error) {
	return advisortest.NewScripted(`{"action":"answer","text":"ok"}`), nil
}

func TestAskCommand_SessionWithoutRedisWarns(t *testing.T) {
	cleanEnv(t)

	res, err := runCmd(t, scriptedAnswer, "ask", "--session", "lab-7", "hello")
	require.NoError(t, err)
	assert.Contains(t, res.stderr, `REDIS_URL is not set; session "lab-7" will not outlive this command`)

	res, err = runCmd(t, scriptedAnswer, "ask", "hello")
	require.NoError(t, err)
	assert.NotContains(t, res.stderr, "REDIS_URL")
}

func TestAskCommand_SessionPersistsWithRedis(t *testing.T) {
	cleanEnv(t)
	mr := miniredis.RunT(t)
	t.Setenv("REDIS_URL", "redis://"+mr.Addr())

	res, err := runCmd(t, scriptedAnswer, "ask", "--session", "lab-7", "hello")
	require.NoError(t, err)
	assert.NotContains(t, res.stderr, "REDIS_URL")

	rows, err := mr.List("session:lab-7:transcript")
	require.NoError(t, err)
	assert.NotEmpty(t, rows)
}
