// ghapi issues a single authenticated GitHub REST request and prints the
// result, in the manner of "gh api".
//
//	ghapi /repos/{owner}/{repo}/actions/runs -f status=failure
//	ghapi -X POST /repos/{owner}/{repo}/actions/workflows/ci.yml/dispatches -f ref=main
//	ghapi --raw /repos/{owner}/{repo}/actions/jobs/123/logs
//	echo -n "$TOKEN" | ghapi --set-secret DEPLOY_TOKEN
//
// Credentials come from GITHUB_TOKEN, GITHUB_OWNER, GITHUB_REPO and
// GITHUB_API_URL, then --env-file, then --config.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	ghdevops "github.com/gh-devops-mcp/client-go"
	"github.com/gh-devops-mcp/client-go/credentials"
	"github.com/gh-devops-mcp/client-go/secrets"
)

// Config holds the process streams run reads from and writes to.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultConfig returns a Config wired to the process streams.
func DefaultConfig() Config {
	return Config{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

type options struct {
	method    string
	raw       bool
	fields    []string
	headers   []string
	input     string
	envFile   string
	config    string
	tool      string
	setSecret string
	timeout   time.Duration
	verbose   bool
}

func parseFlags(args []string, stderr io.Writer) (*options, []string, error) {
	opts := &options{}

	flagSet := pflag.NewFlagSet("ghapi", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&opts.method, "method", "X", http.MethodGet, "HTTP method")
	flagSet.BoolVar(&opts.raw, "raw", false, "print the response body without JSON validation")
	flagSet.StringArrayVarP(&opts.fields, "field", "f", nil, "key=value query parameter (GET, DELETE) or body field")
	flagSet.StringArrayVarP(&opts.headers, "header", "H", nil, "additional request header as key:value")
	flagSet.StringVar(&opts.input, "input", "", "file holding the JSON request body (- for stdin)")
	flagSet.StringVar(&opts.envFile, "env-file", ".env", "dotenv file with GITHUB_* variables")
	flagSet.StringVar(&opts.config, "config", "", "config file with token, owner, repo and api_url keys")
	flagSet.StringVar(&opts.tool, "tool", "ghapi", "tool name used in error messages")
	flagSet.StringVar(&opts.setSecret, "set-secret", "", "store stdin as the named Actions secret")
	flagSet.DurationVar(&opts.timeout, "timeout", 5*time.Minute, "overall deadline including retries")
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "log retries and failures to stderr")

	if err := flagSet.Parse(args); err != nil {
		return nil, nil, err
	}
	return opts, flagSet.Args(), nil
}

func run(args []string, cfg Config) error {
	opts, rest, err := parseFlags(args[1:], cfg.Stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cfg.Stderr, &slog.HandlerOptions{Level: level}))

	resolveOpts := []credentials.Option{credentials.WithEnvFile(opts.envFile)}
	if opts.config != "" {
		resolveOpts = append(resolveOpts, credentials.WithConfigFile(opts.config))
	}
	creds, err := credentials.Resolve(resolveOpts...)
	if err != nil {
		return fmt.Errorf("resolve credentials: %w", err)
	}

	client, err := ghdevops.New(creds, ghdevops.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	if opts.setSecret != "" {
		return setSecret(ctx, client, opts, cfg)
	}

	if len(rest) != 1 {
		return errors.New("usage: ghapi [flags] <path>")
	}
	path := expandPlaceholders(rest[0], client)

	res, err := execute(ctx, client, opts, path, cfg.Stdin)
	if err != nil {
		fmt.Fprintln(cfg.Stderr, ghdevops.FormatError(err, opts.tool))
		return &reportedError{err: err}
	}
	return printResult(cfg.Stdout, res)
}

// expandPlaceholders substitutes {owner} and {repo} with the client's
// defaults.
func expandPlaceholders(path string, client *ghdevops.Client) string {
	return strings.NewReplacer("{owner}", client.Owner(), "{repo}", client.Repo()).Replace(path)
}

func execute(ctx context.Context, client *ghdevops.Client, opts *options, path string, stdin io.Reader) (*ghdevops.Result, error) {
	headers, err := parseHeaders(opts.headers)
	if err != nil {
		return nil, err
	}
	reqOpts := []ghdevops.RequestOption{ghdevops.WithHeaders(headers)}

	fields, err := parseFields(opts.fields)
	if err != nil {
		return nil, err
	}

	method := strings.ToUpper(opts.method)
	switch method {
	case http.MethodGet:
		if opts.raw {
			text, err := client.GetRaw(ctx, path, fields, reqOpts...)
			if err != nil {
				return nil, err
			}
			return &ghdevops.Result{Kind: ghdevops.KindText, Text: text}, nil
		}
		return client.Get(ctx, path, fields, reqOpts...)
	case http.MethodDelete:
		return client.Delete(ctx, path, fields, reqOpts...)
	}

	body, err := requestBody(opts.input, fields, stdin)
	if err != nil {
		return nil, err
	}

	switch method {
	case http.MethodPost:
		return client.Post(ctx, path, body, reqOpts...)
	case http.MethodPut:
		return client.Put(ctx, path, body, reqOpts...)
	case http.MethodPatch:
		return client.Patch(ctx, path, body, reqOpts...)
	}
	return nil, fmt.Errorf("unsupported method %q", opts.method)
}

// requestBody returns the --input document, or the fields as a JSON object.
func requestBody(input string, fields ghdevops.Params, stdin io.Reader) (any, error) {
	if input == "" {
		return fields, nil
	}

	var (
		data []byte
		err  error
	)
	if input == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(input)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if !json.Valid(data) {
		return nil, errors.New("input is not valid JSON")
	}
	return json.RawMessage(data), nil
}

func parseFields(fields []string) (ghdevops.Params, error) {
	params := ghdevops.Params{}
	for _, f := range fields {
		key, value, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q: want key=value", f)
		}
		params[key] = value
	}
	return params, nil
}

func parseHeaders(headers []string) (map[string]string, error) {
	out := make(map[string]string, len(headers))
	for _, h := range headers {
		key, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid header %q: want key:value", h)
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return out, nil
}

func printResult(w io.Writer, res *ghdevops.Result) error {
	switch res.Kind {
	case ghdevops.KindEmpty:
		return nil
	case ghdevops.KindText:
		_, err := io.WriteString(w, res.Text)
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, res.Body, "", "  "); err != nil {
		return fmt.Errorf("format response: %w", err)
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

func setSecret(ctx context.Context, client *ghdevops.Client, opts *options, cfg Config) error {
	value, err := io.ReadAll(cfg.Stdin)
	if err != nil {
		return fmt.Errorf("read secret value: %w", err)
	}

	created, err := secrets.PutRepoSecret(ctx, client, "", "", opts.setSecret, string(value))
	if err != nil {
		fmt.Fprintln(cfg.Stderr, ghdevops.FormatError(err, opts.tool))
		return &reportedError{err: err}
	}

	action := "updated"
	if created {
		action = "created"
	}
	return json.NewEncoder(cfg.Stdout).Encode(map[string]string{"secret": opts.setSecret, "status": action})
}

// reportedError marks a failure whose message run already wrote to stderr.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

// exitCode writes err to w unless run already reported it, and returns the
// process exit status.
func exitCode(err error, w io.Writer) int {
	if err == nil {
		return 0
	}
	var reported *reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintln(w, err)
	}
	return 1
}
