package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/midbel/cli"
	"github.com/rs/zerolog"

	"github.com/midbel/dialect/batch"
	"github.com/midbel/dialect/formula"
	"github.com/midbel/dialect/sheetxml"
)

var errFail = errors.New("fail")

var (
	summary = "translate spreadsheet formulas between locale dialects"
	help    = ""
)

var logger zerolog.Logger

func main() {
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if os.Getenv("DIALECT_DEBUG") != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	var (
		set  = cli.NewFlagSet("dialect")
		root = prepare()
	)
	root.SetSummary(summary)
	root.SetHelp(help)
	if err := set.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			root.Help()
			os.Exit(2)
		}
	}
	err := root.Execute(set.Args())
	if err != nil {
		if s, ok := err.(cli.SuggestionError); ok && len(s.Others) > 0 {
			fmt.Fprintln(os.Stderr, "similar command(s)")
			for _, n := range s.Others {
				fmt.Fprintln(os.Stderr, "-", n)
			}
		}
		if !errors.Is(err, errFail) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func prepare() *cli.CommandTrie {
	root := cli.New()
	root.Register([]string{"map"}, &mapCmd)
	root.Register([]string{"rewrite"}, &rewriteCmd)
	root.Register([]string{"fix"}, &fixCmd)
	root.Register([]string{"functions"}, &functionsCmd)
	root.Register([]string{"extract"}, &extractCmd)
	return root
}

var mapCmd = cli.Command{
	Name:    "map",
	Alias:   []string{"translate"},
	Summary: "translate function names and separators to another locale",
	Usage:   "map [-l locale] [-c config] [<formula>,...]",
	Handler: &MapCommand{},
}

var rewriteCmd = cli.Command{
	Name:    "rewrite",
	Summary: "rewrite dynamic cross sheet address patterns",
	Usage:   "rewrite [-s strategy] [-m sheets] [<formula>,...]",
	Handler: &RewriteCommand{},
}

var fixCmd = cli.Command{
	Name:    "fix",
	Alias:   []string{"repair"},
	Summary: "drop the stray dollar sign of broken cross sheet references",
	Usage:   "fix [<formula>,...]",
	Handler: &FixCommand{},
}

var functionsCmd = cli.Command{
	Name:    "functions",
	Alias:   []string{"funcs"},
	Summary: "list the functions used by formulas and their support",
	Usage:   "functions [-c config] [<formula>,...]",
	Handler: &FunctionsCommand{},
}

var extractCmd = cli.Command{
	Name:    "extract",
	Summary: "extract and translate every formula of a workbook",
	Usage:   "extract [-l locale] [-c config] [-s strategy] [-m sheets] [-j workers] [-fix] <workbook>",
	Handler: &ExtractCommand{},
}

type MapCommand struct {
	Locale string
	Config string
}

func (c MapCommand) Run(args []string) error {
	set := cli.NewFlagSet("map")
	set.StringVar(&c.Locale, "l", "de-DE", "target locale")
	set.StringVar(&c.Config, "c", "", "translation tables file")
	if err := set.Parse(args); err != nil {
		return err
	}
	cfg, err := loadTables(c.Config)
	if err != nil {
		return err
	}
	mapper := formula.NewMapper(cfg, logger)
	return eachFormula(set.Args(), func(str string) error {
		fmt.Fprintln(os.Stdout, mapper.Map(str, c.Locale))
		return nil
	})
}

type RewriteCommand struct {
	Strategy string
	Sheets   string
}

func (c RewriteCommand) Run(args []string) error {
	set := cli.NewFlagSet("rewrite")
	set.StringVar(&c.Strategy, "s", "concat", "rewrite strategy (concat or offset)")
	set.StringVar(&c.Sheets, "m", "", "sheet name overrides (name=ref,...)")
	if err := set.Parse(args); err != nil {
		return err
	}
	strategy, err := parseStrategy(c.Strategy)
	if err != nil {
		return err
	}
	trans := formula.NewTransformer(parseSheetMap(c.Sheets), logger)
	return eachFormula(set.Args(), func(str string) error {
		got, err := trans.RewriteFormula(str, strategy)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, got)
		return nil
	})
}

type FixCommand struct{}

func (c FixCommand) Run(args []string) error {
	set := cli.NewFlagSet("fix")
	if err := set.Parse(args); err != nil {
		return err
	}
	trans := formula.NewTransformer(nil, logger)
	return eachFormula(set.Args(), func(str string) error {
		got, err := trans.FixFormula(str)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, got)
		return nil
	})
}

type FunctionsCommand struct {
	Config string
}

func (c FunctionsCommand) Run(args []string) error {
	set := cli.NewFlagSet("functions")
	set.StringVar(&c.Config, "c", "", "translation tables file")
	if err := set.Parse(args); err != nil {
		return err
	}
	cfg, err := loadTables(c.Config)
	if err != nil {
		return err
	}
	mapper := formula.NewMapper(cfg, logger)
	return eachFormula(set.Args(), func(str string) error {
		for _, name := range mapper.Functions(str) {
			state := "supported"
			if !cfg.Known(name) {
				state = "unknown"
			}
			fmt.Fprintf(os.Stdout, "%-16s %s", name, state)
			fmt.Fprintln(os.Stdout)
		}
		return nil
	})
}

type ExtractCommand struct {
	Locale   string
	Config   string
	Strategy string
	Sheets   string
	Workers  int
	Fix      bool
}

func (c ExtractCommand) Run(args []string) error {
	set := cli.NewFlagSet("extract")
	set.StringVar(&c.Locale, "l", "de-DE", "target locale")
	set.StringVar(&c.Config, "c", "", "translation tables file")
	set.StringVar(&c.Strategy, "s", "concat", "rewrite strategy (concat or offset)")
	set.StringVar(&c.Sheets, "m", "", "sheet name overrides (name=ref,...)")
	set.IntVar(&c.Workers, "j", 0, "number of workers")
	set.BoolVar(&c.Fix, "fix", false, "repair stray dollar signs first")
	if err := set.Parse(args); err != nil {
		return err
	}
	strategy, err := parseStrategy(c.Strategy)
	if err != nil {
		return err
	}
	cfg, err := loadTables(c.Config)
	if err != nil {
		return err
	}
	r, err := sheetxml.Open(set.Arg(0))
	if err != nil {
		return err
	}
	defer r.Close()
	list, err := r.ReadFormulas()
	if err != nil {
		return err
	}

	var (
		mapper = formula.NewMapper(cfg, logger)
		trans  = formula.NewTransformer(parseSheetMap(c.Sheets), logger)
	)
	fn := func(f sheetxml.Formula) (string, error) {
		str := f.Text
		if c.Fix {
			got, err := trans.FixFormula(str)
			if err != nil {
				return "", err
			}
			str = got
		}
		got, err := trans.RewriteFormula(str, strategy)
		if err != nil {
			return "", err
		}
		return mapper.Map(got, c.Locale), nil
	}
	runner := batch.NewRunner(c.Workers, logger)
	for _, res := range runner.Run(context.Background(), list, fn) {
		fmt.Fprintf(os.Stdout, "%s!%s\t%s", res.Sheet, res.Cell, res.Output)
		fmt.Fprintln(os.Stdout)
	}
	return nil
}

func loadTables(file string) (*formula.Config, error) {
	if file == "" {
		return formula.DefaultConfig(), nil
	}
	return formula.LoadConfigFile(file)
}

func parseStrategy(str string) (formula.Strategy, error) {
	switch str {
	case "", "concat":
		return formula.StrategyConcat, nil
	case "offset":
		return formula.StrategyOffset, nil
	default:
		return 0, fmt.Errorf("%s: unknown strategy", str)
	}
}

func parseSheetMap(str string) formula.SheetNameMap {
	if str == "" {
		return nil
	}
	sheets := make(formula.SheetNameMap)
	for _, pair := range strings.Split(str, ",") {
		name, ref, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		sheets[name] = ref
	}
	return sheets
}

// eachFormula runs fn over the formulas given on the command line or, when
// there are none, over the lines read from stdin.
func eachFormula(args []string, fn func(string) error) error {
	if len(args) > 0 {
		for _, str := range args {
			if err := fn(str); err != nil {
				return err
			}
		}
		return nil
	}
	scan := bufio.NewScanner(os.Stdin)
	for scan.Scan() {
		str := strings.TrimSpace(scan.Text())
		if str == "" {
			continue
		}
		if err := fn(str); err != nil {
			return err
		}
	}
	return scan.Err()
}
