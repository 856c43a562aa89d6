// Command shopterm browses the catalog in a terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	pkgcfg "github.com/Skotchmaster/storefront/pkg/config"
	"github.com/Skotchmaster/storefront/pkg/events"
	"github.com/Skotchmaster/storefront/pkg/logging"

	"github.com/Skotchmaster/storefront/services/storefront/internal/listing"
	"github.com/Skotchmaster/storefront/services/storefront/internal/productclient"
	"github.com/Skotchmaster/storefront/services/storefront/internal/session"
	"github.com/Skotchmaster/storefront/services/storefront/internal/tui"
)

var (
	catalogURL string
	webURL     string
	token      string
	jwtSecret  string
	brokers    string
	logFile    string
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "shopterm",
	Short: "Browse the product catalog from the terminal",
	Long: `shopterm loads the catalog once, filters it by name as you type and
sends Enter on a product through the same purchase gate as the web storefront.
Without a valid --token the purchase leads to the sign-in page.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&catalogURL, "catalog-url", pkgcfg.EnvDefault("CATALOG_URL", "http://localhost:8081"), "catalog base URL")
	rootCmd.Flags().StringVar(&webURL, "storefront-url", pkgcfg.EnvDefault("STOREFRONT_URL", "http://localhost:8080"), "storefront base URL printed for the chosen route")
	rootCmd.Flags().StringVar(&token, "token", os.Getenv("ACCESS_TOKEN"), "access token of the signed-in user")
	rootCmd.Flags().StringVar(&jwtSecret, "jwt-secret", os.Getenv("JWT_SECRET"), "secret used to verify --token")
	rootCmd.Flags().StringVar(&brokers, "kafka-brokers", os.Getenv("KAFKA_BROKERS"), "comma separated brokers for purchase events")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write JSON logs to this file")
	rootCmd.Flags().DurationVar(&timeout, "timeout", productclient.DefaultTimeout, "catalog request timeout")
}

func run(cmd *cobra.Command, _ []string) error {
	var logOut io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := logging.NewWithWriter(logOut, pkgcfg.EnvDefault("LOG_LEVEL", "info")).With("service", "shopterm")

	pub, err := events.FromBrokers(pkgcfg.CSV(brokers))
	if err != nil {
		return fmt.Errorf("events: %w", err)
	}
	defer pub.Close()

	ctx := logging.IntoContext(cmd.Context(), logger)

	inbox := &listing.Inbox{}
	view := listing.NewView(listing.Options{
		Loader:   productclient.NewClient(catalogURL, timeout),
		Session:  session.FromToken(token, []byte(jwtSecret)),
		Notifier: inbox,
		Events:   pub,
		Logger:   logger,
	})
	view.Mount(ctx)
	defer view.Unmount()

	final, err := tea.NewProgram(tui.New(ctx, view, inbox), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	m := final.(tui.Model)
	for _, n := range m.Toasts() {
		fmt.Fprintln(cmd.OutOrStdout(), tui.RenderToast(n))
	}
	if m.Navigated != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "→ %s%s\n", strings.TrimSuffix(webURL, "/"), m.Navigated)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
