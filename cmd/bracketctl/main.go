// bracketctl is the admin CLI for the bracket database: it lists, searches,
// exports and imports brackets and manages the athlete registry without
// going through the web editor.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/AdamBeresnev/silat-bracket/internal/bracket"
	"github.com/AdamBeresnev/silat-bracket/internal/config"
	"github.com/AdamBeresnev/silat-bracket/internal/db"
	"github.com/AdamBeresnev/silat-bracket/internal/store"
	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const usage = `Usage: bracketctl [--db PATH] <command> [flags]

Commands:
  list                      list stored brackets
  search <query>            list brackets whose name or description matches
  export <id> [-o FILE] [--format json|yaml]
                            write a bracket as JSON or YAML
  import <file>             import a bracket from a JSON file ("-" for stdin)
  delete <id>               delete a bracket
  reset                     replace all brackets with the sample data
  athletes list             list registered athletes
  athletes add --name NAME [--team TEAM] [--avatar URL]
`

var errUsage = errors.New("invalid usage")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type app struct {
	brackets *store.BracketStore
	athletes *store.AthleteStore
	stdin    io.Reader
	out      io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var dbPath string
	flagSet := pflag.NewFlagSet("bracketctl", pflag.ContinueOnError)
	flagSet.SetInterspersed(false)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&dbPath, "db", cfg.DBPath, "path to the SQLite database")
	if err := flagSet.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	database, err := db.InitDB(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.RunMigrations(database.DB); err != nil {
		return err
	}

	brackets, err := store.OpenBracketStore(ctx, store.NewKVStore(database), store.WithLogger(logger))
	if err != nil {
		return err
	}

	a := &app{
		brackets: brackets,
		athletes: store.NewAthleteStore(database),
		stdin:    stdin,
		out:      out,
	}
	return a.dispatch(ctx, rest[0], rest[1:])
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "list":
		return a.printBrackets(a.brackets.List())
	case "search":
		return a.printBrackets(a.brackets.Search(strings.Join(args, " ")))
	case "export":
		return a.export(args)
	case "import":
		return a.importBracket(ctx, args)
	case "delete":
		if len(args) != 1 {
			return fmt.Errorf("%w: delete takes exactly one bracket id", errUsage)
		}
		if err := a.brackets.Delete(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "deleted %s\n", args[0])
		return nil
	case "reset":
		if err := a.brackets.Reset(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "brackets reset to sample data")
		return nil
	case "athletes":
		return a.athletesCmd(ctx, args)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func (a *app) printBrackets(brackets []bracket.Bracket) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tPARTICIPANTS\tUPDATED")
	for _, b := range brackets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", b.ID, b.Name, b.Status, len(b.Participants), b.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func (a *app) export(args []string) error {
	var output, format string
	flagSet := pflag.NewFlagSet("export", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVarP(&output, "output", "o", "", "write to FILE instead of stdout")
	flagSet.StringVar(&format, "format", "json", "output format: json or yaml")
	if err := flagSet.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("%w: export takes exactly one bracket id", errUsage)
	}

	text, err := a.brackets.Export(flagSet.Arg(0))
	if err != nil {
		return err
	}

	switch format {
	case "json":
	case "yaml":
		if text, err = toYAML(text); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown format %q", errUsage, format)
	}

	if output == "" {
		_, err := fmt.Fprintln(a.out, text)
		return err
	}
	if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	fmt.Fprintf(a.out, "exported to %s\n", output)
	return nil
}

// toYAML re-encodes exported JSON as YAML, keeping the JSON field names.
func toYAML(jsonText string) (string, error) {
	var doc any
	if err := json.Unmarshal([]byte(jsonText), &doc); err != nil {
		return "", fmt.Errorf("failed to decode export: %w", err)
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode yaml: %w", err)
	}
	return string(out), nil
}

func (a *app) importBracket(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: import takes exactly one file", errUsage)
	}

	var data []byte
	var err error
	if args[0] == "-" {
		data, err = io.ReadAll(a.stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read import: %w", err)
	}

	b, err := a.brackets.Import(ctx, string(data))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "imported %s (%s)\n", b.Name, b.ID)
	return nil
}

func (a *app) athletesCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: athletes needs a subcommand", errUsage)
	}

	switch args[0] {
	case "list":
		athletes, err := a.athletes.ListAthletes(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tTEAM")
		for _, ath := range athletes {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", ath.ID, ath.Name, ath.TeamName)
		}
		return tw.Flush()
	case "add":
		var rec bracket.AthleteRecord
		flagSet := pflag.NewFlagSet("athletes add", pflag.ContinueOnError)
		flagSet.SetOutput(io.Discard)
		flagSet.StringVar(&rec.Name, "name", "", "athlete name")
		flagSet.StringVar(&rec.TeamName, "team", "", "team or perguruan")
		flagSet.StringVar(&rec.AvatarURL, "avatar", "", "avatar image URL")
		if err := flagSet.Parse(args[1:]); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		rec.Name = strings.TrimSpace(rec.Name)
		if rec.Name == "" {
			return fmt.Errorf("%w: --name is required", errUsage)
		}
		rec.ID = uuid.NewString()
		if err := a.athletes.CreateAthlete(ctx, &rec); err != nil {
			return fmt.Errorf("failed to create athlete: %w", err)
		}
		fmt.Fprintf(a.out, "added athlete %s (%s)\n", rec.Name, rec.ID)
		return nil
	default:
		return fmt.Errorf("%w: unknown athletes subcommand %q", errUsage, args[0])
	}
}
