package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/prepdeck/prepctl/internal/api"
	"github.com/prepdeck/prepctl/internal/config"
	"github.com/prepdeck/prepctl/internal/logging"
	"github.com/prepdeck/prepctl/internal/server"
	"github.com/prepdeck/prepctl/internal/session"
	"github.com/prepdeck/prepctl/internal/speech"
	"github.com/prepdeck/prepctl/internal/ui"
)

var (
	configPath string
	debug      bool
	assumeYes  bool
	oauthCode  string
	oauthState string
)

var rootCmd = &cobra.Command{
	Use:   "prepctl",
	Short: "Interview prep from the terminal",
	Long: `prepctl signs you in to the interview-prep platform, verifies your email
with a one-time code, shows plans and opens checkout orders.

Environment:
  PREPCTL_API_URL              API base URL (required)
  PREPCTL_OPENAI_API_KEY       OpenAI key for the speech routes (serve)
  PREPCTL_RAZORPAY_KEY_SECRET  Checkout secret for payment verification (serve)
  PREPCTL_LISTEN_ADDR          Listen address for serve (default :8080)
  PREPCTL_CODE_LENGTH          Digits in verification codes (default 6)
  PREPCTL_CONFIG               Config file path`,
	SilenceUsage: true,
	RunE:         runInteractive,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the speech and payment verification routes",
	RunE:  runServe,
}

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List subscription plans",
	RunE:  runPlans,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	RunE:  runLogout,
}

var oauthCmd = &cobra.Command{
	Use:   "oauth PROVIDER",
	Short: "Finish a browser sign-in with the provider's callback code",
	Long: `oauth exchanges the code and state from a provider redirect (for example
google or github) for a session and saves it, so the next launch is signed in.`,
	Args: cobra.ExactArgs(1),
	RunE: runOAuth,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the production target prompt")
	oauthCmd.Flags().StringVar(&oauthCode, "code", "", "authorization code from the redirect")
	oauthCmd.Flags().StringVar(&oauthState, "state", "", "state value from the redirect")
	oauthCmd.MarkFlagRequired("code")
	rootCmd.AddCommand(serveCmd, plansCmd, logoutCmd, oauthCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireAPI(); err != nil {
		return err
	}
	if !isSafeTarget(cfg.APIURL) && !assumeYes && !confirmTarget() {
		return nil
	}

	logger, err := logging.NewFile(cfg.LogFile, debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	client := api.NewClient(cfg.APIURL, "")
	store := session.NewStore(cfg.SessionFile)

	p := tea.NewProgram(initialModel(client, store, logger, cfg.CodeLength))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := logging.NewServer(debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	opts := server.Options{PaymentSecret: cfg.Razorpay.KeySecret}
	if cfg.OpenAI.APIKey != "" {
		var speechOpts []speech.Option
		if cfg.OpenAI.BaseURL != "" {
			speechOpts = append(speechOpts, speech.WithBaseURL(cfg.OpenAI.BaseURL))
		}
		if cfg.OpenAI.Voice != "" {
			speechOpts = append(speechOpts, speech.WithVoice(cfg.OpenAI.Voice))
		}
		sp, err := speech.New(cfg.OpenAI.APIKey, speechOpts...)
		if err != nil {
			return err
		}
		opts.Transcriber = sp
		opts.Synthesizer = sp
	} else {
		logger.Warn("no OpenAI key configured; speech routes will answer 503")
	}
	if opts.PaymentSecret == "" {
		logger.Warn("no checkout secret configured; payment verification will answer 503")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.New(logger, opts).Run(ctx, cfg.Server.ListenAddr)
}

func runPlans(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireAPI(); err != nil {
		return err
	}
	resp, err := api.NewClient(cfg.APIURL, "").ListPlans(cmd.Context())
	if err != nil {
		return err
	}
	if len(resp.Plans) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), ui.DimStyle.Render("No plans available."))
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), renderPlans(resp.Plans))
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := session.NewStore(cfg.SessionFile).Clear(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessStyle.Render("Signed out."))
	return nil
}

func runOAuth(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireAPI(); err != nil {
		return err
	}
	client := api.NewClient(cfg.APIURL, "")
	store := session.NewStore(cfg.SessionFile)
	msg, err := completeOAuth(cmd.Context(), client, store, args[0], oauthCode, oauthState)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessStyle.Render(msg))
	return nil
}

// completeOAuth exchanges a provider callback for a session and stores it.
// Accounts that still need email verification are not stored.
func completeOAuth(ctx context.Context, client *api.Client, store *session.Store, provider, code, state string) (string, error) {
	if provider == "" || code == "" {
		return "", errors.New("provider and code are required")
	}
	resp, err := client.OAuthCallback(ctx, provider, api.OAuthCallbackRequest{Code: code, State: state})
	if err != nil {
		return "", fmt.Errorf("oauth %s: %w", provider, err)
	}
	if resp.RequiresVerification {
		return firstNonEmpty(resp.Message, "Verify your email from the main menu, then sign in."), nil
	}
	if resp.Token == "" {
		return "", errors.New("server returned no session")
	}
	client.SetToken(resp.Token)
	var email, name string
	if resp.User != nil {
		email, name = resp.User.Email, resp.User.Name
	}
	if err := store.Save(resp.Token, email, name); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return fmt.Sprintf("Signed in as %s.", firstNonEmpty(name, email, provider+" account")), nil
}

// isSafeTarget reports whether rawURL can be used without a prompt: loopback
// hosts always, anything else only when ENVIRONMENT names a non-production
// deployment.
func isSafeTarget(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return true
	}
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))
	return env != "" && env != "production"
}

func confirmTarget() bool {
	fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render("WARNING: PREPCTL_API_URL is not a loopback address and ENVIRONMENT is unset or production."))
	fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render("You may be targeting a production environment."))
	fmt.Fprint(os.Stderr, ui.PromptStyle.Render("Continue? (y/N) "))

	var answer string
	fmt.Scanln(&answer)
	return answer == "y" || answer == "Y"
}

// restoreSession validates a saved token. An expired token is forgotten.
func restoreSession(ctx context.Context, client *api.Client, store *session.Store, log *zap.Logger) (*api.User, error) {
	saved, err := store.Load()
	if err != nil {
		return nil, err
	}
	client.SetToken(saved.Token)
	user, err := client.Me(ctx)
	if err != nil {
		client.SetToken("")
		if api.IsUnauthorized(err) {
			log.Info("saved session expired")
			if clearErr := store.Clear(); clearErr != nil {
				log.Warn("clear session", zap.Error(clearErr))
			}
			return nil, session.ErrNoSession
		}
		return nil, err
	}
	return user, nil
}

var errUnknownAction = errors.New("unknown action")
