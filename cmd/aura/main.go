// Command aura is AURA's CLI entry point: it wires every component named
// in SPEC_FULL.md §4.A as an explicit Go value, constructed once here and
// threaded by parameter, and exposes the Hybrid Orchestrator through a
// small cobra command surface (run, chat, status, capabilities, init).
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"aura/internal/capability"
	"aura/internal/config"
	"aura/internal/executor"
	"aura/internal/healing"
	"aura/internal/llm"
	"aura/internal/logging"
	"aura/internal/orchestrator"
	"aura/internal/planner"
	"aura/internal/router"
	"aura/internal/sandbox"
	"aura/internal/session"
	"aura/internal/tools"
	"aura/internal/tools/builtin"
	toolsys "aura/internal/tools/system"
	"aura/internal/osboundary"
)

// exit codes from §6: 0 success, 2 misuse, 3 no credentials, 4 internal
// error.
const (
	exitSuccess       = 0
	exitMisuse        = 2
	exitNoCredentials = 3
	exitInternal      = 4
)

var (
	configPath string
	dataDir    string
	verbose    bool

	logger *zap.Logger
)

// rootCmd is the base command. Running aura with no subcommand starts the
// chat REPL, matching the teacher's "no args launches interactive mode"
// convention.
var rootCmd = &cobra.Command{
	Use:   "aura",
	Short: "AURA - local-first desktop assistant",
	Long: `AURA routes every request through a Hybrid Orchestrator:
a deterministic Router and Tool Executor handle common commands locally,
an LLM Code-Gen Fallback handles one-off computation, an Agentic
Planner/Executor handles multi-step tasks, and a Self-Healing Loop retries
and repairs failures before they reach the user.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg = zap.NewDevelopmentConfig()
		}
		zcfg.DisableStacktrace = true
		built, err := zcfg.Build()
		if err != nil {
			return fmt.Errorf("init cli logger: %w", err)
		}
		logger = built
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (default: $AURA_DATA_DIR/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "override AURA_DATA_DIR")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd, chatCmd, statusCmd, capabilitiesCmd, initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps a returned error to §6's fixed exit code table. cobra
// usage errors (missing args, unknown flags) are surfaced by cobra itself
// before RunE runs, so exitMisuse is reserved for cliError values our own
// commands raise explicitly.
func exitCodeFor(err error) int {
	switch e := err.(type) {
	case *cliError:
		return e.code
	default:
		return exitInternal
	}
}

// cliError carries an explicit process exit code alongside a message, so
// command bodies can distinguish misuse from an internal failure without
// cobra's default always-exit-1 behavior.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }

// Close releases the app's file handles (currently just the session's audit
// log). Every command that calls newApp defers this immediately after.
func (a *app) Close() {
	if a.session != nil {
		_ = a.session.Close()
	}
}

func usageError(format string, args ...any) error {
	return &cliError{code: exitMisuse, err: fmt.Errorf(format, args...)}
}

// app bundles every wired component a command needs. Built fresh per
// command invocation (not a package singleton) per §4.A/§9's explicit-value
// rule.
type app struct {
	cfg      *config.Config
	session  *session.Session
	caps     *capability.Store
	registry *tools.Registry
	exec     *executor.Executor
	sandbox  *sandbox.Sandbox
	router   *router.Router
	planner  *planner.Planner
	healer   *healing.Healer
	orch     *orchestrator.Orchestrator
	llmErr   error // non-nil when no LLM client could be constructed (e.g. no credentials)
}

// newApp constructs every SPEC_FULL.md §4.A component in dependency order:
// config -> logging -> OS boundary -> sandbox -> tool registry -> router ->
// executor -> LLM client -> planner -> capability store -> healer ->
// session -> orchestrator.
func newApp(ctx context.Context) (*app, error) {
	cfgPath := configPath
	cfg, err := config.Load(resolveConfigPath(cfgPath))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if verbose {
		cfg.Logging.DebugMode = true
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, usageError("%v", err)
	}

	if err := logging.Init(cfg.DataDir, logging.Config{
		DebugMode:  cfg.Logging.DebugMode,
		Level:      cfg.Logging.Level,
		JSONFormat: cfg.Logging.JSONFormat,
	}); err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	logging.Boot("aura starting, data_dir=%s provider=%s", cfg.DataDir, cfg.LLM.Provider)

	boundary := osboundary.New(cfg.GetExecutionTimeout())
	sb := sandbox.New()

	registry := tools.NewRegistry()
	for _, spec := range builtin.All(boundary) {
		if err := registry.Register(spec); err != nil {
			return nil, fmt.Errorf("register builtin tool %s: %w", spec.Name, err)
		}
	}
	for _, spec := range toolsys.All(boundary, sb) {
		if err := registry.Register(spec); err != nil {
			return nil, fmt.Errorf("register system tool %s: %w", spec.Name, err)
		}
	}

	r := router.New()
	exec := executor.New(registry, executor.AllCapabilities())

	userConfigPath := config.UserConfigPath(cfg.DataDir)
	userCfg, err := config.LoadUserConfig(userConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load user config: %w", err)
	}

	var llmClient llm.Client
	llmClient, llmErr := llm.NewClientFromEnv(cfg, userCfg)
	if llmErr != nil {
		llmClient = nil
	}

	pl := planner.New(llmClient, exec, registry)

	builtinTriggers := make([]capability.BuiltinTrigger, 0)
	for _, rule := range r.BuiltinRules() {
		builtinTriggers = append(builtinTriggers, capability.BuiltinTrigger{ToolName: rule.ToolName, Phrases: rule.Phrases})
	}
	capsPath := filepath.Join(cfg.DataDir, "capabilities.json")
	caps := capability.New(capsPath, builtinTriggers)
	if err := caps.Load(); err != nil {
		return nil, fmt.Errorf("load capability store: %w", err)
	}
	if err := caps.Watch(ctx); err != nil {
		logging.Boot("capability watch disabled: %v", err)
	}

	healer := healing.New(exec, caps)
	healer.SetBackoff(func(attempt int) time.Duration {
		return 200 * time.Millisecond * time.Duration(1<<attempt)
	})

	sess, err := session.Open(cfg.DataDir, cfg.UserName, cfg.AssistantName)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	orch := orchestrator.New(r, registry, exec, sb, pl, healer, caps, llmClient)

	return &app{
		cfg:      cfg,
		session:  sess,
		caps:     caps,
		registry: registry,
		exec:     exec,
		sandbox:  sb,
		router:   r,
		planner:  pl,
		healer:   healer,
		orch:     orch,
		llmErr:   llmErr,
	}, nil
}

func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	dir := dataDir
	if dir == "" {
		dir = os.Getenv("AURA_DATA_DIR")
	}
	if dir == "" {
		dir = config.DefaultDataDir()
	}
	return filepath.Join(dir, "config.yaml")
}
