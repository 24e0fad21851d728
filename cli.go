package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kova98/threadtext/config"
	"github.com/kova98/threadtext/metrics"
	"github.com/kova98/threadtext/sources"
	"github.com/kova98/threadtext/transcript"
)

const defaultWrapWidth = 80

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "threadtext",
		Short:         "Turn reddit threads into plain-text transcripts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadConfig(); err != nil {
				return errors.Wrap(err, "load config")
			}
			return nil
		},
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newRenderCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd
}

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the page, the /fetch proxy and the /transcript endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				config.Config.Port = port
			}

			logger := newLogger(os.Stdout)
			slog.SetDefault(logger)

			a, err := newApp(logger, clockwork.NewRealClock())
			if err != nil {
				return err
			}
			return a.serve(cmd.Context())
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides PORT)")
	return cmd
}

func newRenderCmd() *cobra.Command {
	var pretty, noJSONSuffix bool

	cmd := &cobra.Command{
		Use:   "render <reddit-url|file|->",
		Short: "Print the transcript of a reddit thread, a saved .json file or stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr())
			slog.SetDefault(logger)

			body, err := readSource(cmd.Context(), logger, cmd.InOrStdin(), args[0], !noJSONSuffix)
			if err != nil {
				return err
			}

			v, err := transcript.Decode(body)
			if err != nil {
				return err
			}
			text := transcript.Render(v)

			if pretty {
				text, err = prettify(text, cmd.OutOrStdout())
				if err != nil {
					return err
				}
			}

			_, err = io.WriteString(cmd.OutOrStdout(), strings.TrimRight(text, "\n")+"\n")
			return err
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "render the markdown for the terminal")
	cmd.Flags().BoolVar(&noJSONSuffix, "no-json-suffix", false, "don't append .json to reddit URLs")
	return cmd
}

func readSource(ctx context.Context, logger *slog.Logger, stdin io.Reader, src string, forceJSON bool) ([]byte, error) {
	switch {
	case src == "-":
		b, err := io.ReadAll(stdin)
		return b, errors.Wrap(err, "read stdin")
	case strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://"):
		client, err := sources.NewHTTPClient(config.Config.ProxyURL, config.Config.TrustedOrigin, config.Config.UpstreamTimeout)
		if err != nil {
			return nil, err
		}
		fetcher := sources.NewRedditFetcher(logger, client, metrics.New(prometheus.NewRegistry()), clockwork.NewRealClock())

		target, err := fetcher.JSONURL(src, forceJSON)
		if err != nil {
			return nil, errors.Wrapf(err, "resolve %s", src)
		}
		resp, err := fetcher.Fetch(ctx, target)
		if err != nil {
			return nil, errors.Wrap(err, "upstream fetch error")
		}
		return resp.Body, nil
	default:
		b, err := os.ReadFile(src)
		return b, errors.Wrapf(err, "read %s", src)
	}
}

// prettify renders markdown with glamour, wrapped to the terminal width when
// out is a terminal.
func prettify(md string, out io.Writer) (string, error) {
	width := defaultWrapWidth
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			width = w
		}
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", errors.Wrap(err, "create renderer")
	}

	rendered, err := r.Render(md)
	if err != nil {
		return "", errors.Wrap(err, "render markdown")
	}
	return rendered, nil
}
