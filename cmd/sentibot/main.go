// Command sentibot is the console chat agent: it scores each line you type,
// answers in a matching tone and appends every turn to the interaction log
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"sentibot/internal/core/version"
	"sentibot/internal/modkit"
	"sentibot/internal/modkit/module"
	"sentibot/internal/platform/config"
	perr "sentibot/internal/platform/errors"
	"sentibot/internal/platform/logger"
	"sentibot/internal/platform/store"

	ddom "sentibot/internal/services/dialogue/domain"
	dialoguemod "sentibot/internal/services/dialogue/module"
	idom "sentibot/internal/services/interactions/domain"
	interactionsmod "sentibot/internal/services/interactions/module"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func mustSetEnv(k, v string) {
	if v != "" {
		_ = os.Setenv(k, v)
	}
}

// setDefaultEnv fills k only when neither env nor .env set it
func setDefaultEnv(k, v string) {
	if _, ok := os.LookupEnv(k); !ok {
		_ = os.Setenv(k, v)
	}
}

type flags struct {
	botName    string
	backend    string
	chatLog    string
	logFile    string
	pack       string
	seed       int
	targetLang string
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "sentibot",
		Short: "Console chat agent that answers in the tone of your sentiment",
		Long: `sentibot reads one line at a time, classifies its sentiment as positive,
negative or neutral, prints the scores and a reply in a matching tone, and
appends every turn to the interaction log.

Say "bye" (or press Ctrl-C / Ctrl-D) to leave.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// flags win over env by landing in the namespaces modules read
			mustSetEnv("CORE_DIALOGUE_BOT_NAME", f.botName)
			mustSetEnv("CORE_DIALOGUE_PACK", f.pack)
			mustSetEnv("CORE_DIALOGUE_TARGET_LANG", f.targetLang)
			if cmd.Flags().Changed("seed") {
				mustSetEnv("CORE_DIALOGUE_SEED", strconv.Itoa(f.seed))
			}
			mustSetEnv("CORE_INTERACTIONS_BACKEND", f.backend)
			mustSetEnv("CORE_INTERACTIONS_PATH", f.chatLog)
			mustSetEnv("LOG_FILE", f.logFile)

			// the transcript owns stdout; logs go to the file only
			setDefaultEnv("LOG_FILE", "sentibot.log")
			setDefaultEnv("LOG_FILE_ONLY", "true")
			setDefaultEnv("LOG_FORMAT", "json")
			setDefaultEnv("LOG_LEVEL", "info")
			setDefaultEnv("LOG_SERVICE", "sentibot")
			logger.Init(logger.FromEnv())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.botName, "bot-name", "", "name printed before every agent line (default from the reply pack)")
	fl.StringVar(&f.backend, "backend", "", "interaction log backend: file, sqlite, pg or ch (default file)")
	fl.StringVar(&f.chatLog, "chat-log", "", "path of the JSON interaction log for the file backend")
	fl.StringVar(&f.logFile, "log-file", "", "diagnostic log file (default sentibot.log)")
	fl.StringVar(&f.pack, "pack", "", "YAML reply pack overriding the embedded one")
	fl.IntVar(&f.seed, "seed", 0, "seed for reply selection; 0 picks a random seed")
	fl.StringVar(&f.targetLang, "target-lang", "", "language replies are written in (default en)")
	return cmd
}

// run wires the store and modules, then drives the loop until it terminates
// Startup failures, including config panics, come back as errors
func run(ctx context.Context, in io.Reader, out, errOut io.Writer) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = perr.FromPanic(rec)
		}
	}()

	l := logger.Named("console")
	root := config.New()
	core := root.Prefix("CORE_")

	logOpts := interactionsmod.FromConfig(core)
	st, err := store.Open(ctx, interactionsmod.StoreConfig(root, logOpts), store.WithLogger(*l))
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "open interaction store")
	}
	defer func() {
		if cerr := st.Close(context.WithoutCancel(ctx)); cerr != nil {
			l.Error().Err(cerr).Msg("failed to close store")
		}
	}()

	deps := modkit.Deps{
		Log:    *l,
		Cfg:    core,
		PG:     st.PG,
		CH:     st.CH,
		SQLite: st.SQLite,
	}
	im, err := interactionsmod.New(deps)
	if err != nil {
		return err
	}
	dm, err := dialoguemod.New(deps, modkit.WithPorts(dialoguemod.Ports{
		Turns: module.MustPortsOf[idom.LoggerPort](im),
	}))
	if err != nil {
		return err
	}

	bi := version.Info("sentibot")
	_, _ = fmt.Fprintln(errOut, bi.String())

	ctx = logger.WithSession(ctx, uuid.NewString())
	logger.From(l, ctx).Info().
		Str("version", bi.Version).
		Str("backend", im.Backend()).
		Msg("console agent starting")

	return module.MustPortsOf[ddom.EnginePort](dm).Run(ctx, in, out)
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		_, _ = fmt.Fprintf(os.Stderr, "sentibot: .env: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	_ = logger.Close()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "sentibot: %v\n", err)
		stop()
		os.Exit(1)
	}
}
