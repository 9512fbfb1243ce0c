package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/pkg/errors"

	"github.com/LachlanBWWright/rsrcdump/rsrc"
	"github.com/LachlanBWWright/rsrcdump/rsrc/radf"
	"github.com/LachlanBWWright/rsrcdump/rsrc/rconvert"
	"github.com/LachlanBWWright/rsrcdump/rsrc/rfork"
	"github.com/LachlanBWWright/rsrcdump/rsrc/rtype"
	"github.com/LachlanBWWright/rsrcdump/ui"
)

type (
	Args struct {
		Extract     *ExtractCmd     `arg:"subcommand:extract" help:"extract a resource fork to JSON"`
		Create      *CreateCmd      `arg:"subcommand:create" help:"create a resource fork from JSON"`
		List        *ListCmd        `arg:"subcommand:list" help:"list the contents of a resource fork"`
		Interactive *InteractiveCmd `arg:"subcommand:interactive"`
	}
	Selection struct {
		Struct      []string `arg:"-s,--struct,separate" help:"struct spec line TYPE:format[:names]" placeholder:"SPEC"`
		StructFile  string   `arg:"-S,--struct-file" help:"file of struct spec lines" placeholder:"specs.txt"`
		IncludeType []string `arg:"-i,--include-type,separate" help:"only this resource type" placeholder:"TYPE"`
		ExcludeType []string `arg:"-e,--exclude-type,separate" help:"skip this resource type" placeholder:"TYPE"`
	}
	ExtractCmd struct {
		File string `arg:"positional,required" help:"path to resource fork"`
		Out  string `arg:"-o" help:"destination JSON file" placeholder:"out.json"`
		Selection
	}
	CreateCmd struct {
		File  string `arg:"positional,required" help:"path to JSON file"`
		Out   string `arg:"-o" help:"destination binary file" placeholder:"out.rsrc"`
		NoAdf bool   `arg:"--no-adf" help:"do not wrap the fork in an AppleDouble container"`
		Force bool   `help:"overwrite the destination file"`
		Selection
	}
	ListCmd struct {
		File string `arg:"positional,required" help:"path to resource fork"`
	}
	InteractiveCmd struct{}
)

func (Args) Description() string {
	return strings.Join(
		[]string{
			"Extract resources from a classic resource fork into editable JSON,",
			"and build forks back from it. Struct specs turn opaque resources",
			"into named fields; everything else round-trips as hex.",
		},
		"\n",
	) + "\n"
}

func buildRegistry(sel Selection) (*rconvert.Registry, error) {
	registry := rconvert.NewRegistry()
	if sel.StructFile != "" {
		text, err := os.ReadFile(sel.StructFile)
		if err != nil {
			return nil, errors.Wrap(err, "reading struct spec file")
		}
		if err := registry.RegisterSpecs(string(text)); err != nil {
			return nil, err
		}
	}
	for _, line := range sel.Struct {
		if err := registry.RegisterSpec(line); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func parseTypes(names []string) ([]rtype.Type, error) {
	types := make([]rtype.Type, 0, len(names))
	for _, name := range names {
		t, err := rtype.Parse(name)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

func runExtract(cmd *ExtractCmd) error {
	registry, err := buildRegistry(cmd.Selection)
	if err != nil {
		return err
	}
	include, err := parseTypes(cmd.IncludeType)
	if err != nil {
		return err
	}
	exclude, err := parseTypes(cmd.ExcludeType)
	if err != nil {
		return err
	}

	bs, err := os.ReadFile(cmd.File)
	if err != nil {
		return errors.Wrap(err, "reading input")
	}
	jsonText, warnings, err := rsrc.Dump(bs, registry, include, exclude)
	if err != nil {
		return err
	}
	for _, warning := range warnings {
		fmt.Fprintln(os.Stderr, "[WARNING]", warning)
	}

	out := cmd.Out
	if out == "" {
		out = strings.TrimSuffix(cmd.File, ".rsrc") + ".json"
	}
	if err := os.WriteFile(out, jsonText, 0644); err != nil {
		return errors.Wrap(err, "writing output")
	}
	fmt.Println("Wrote", out)
	return nil
}

func runCreate(cmd *CreateCmd) error {
	registry, err := buildRegistry(cmd.Selection)
	if err != nil {
		return err
	}
	include, err := parseTypes(cmd.IncludeType)
	if err != nil {
		return err
	}
	exclude, err := parseTypes(cmd.ExcludeType)
	if err != nil {
		return err
	}

	out := cmd.Out
	if out == "" {
		out = strings.TrimSuffix(cmd.File, ".json") + ".rsrc"
	}
	if _, err := os.Stat(out); err == nil && !cmd.Force {
		return errors.Errorf("%s exists; pass --force to overwrite", out)
	}

	jsonText, err := os.ReadFile(cmd.File)
	if err != nil {
		return errors.Wrap(err, "reading input")
	}
	bs, err := rsrc.Build(jsonText, registry, include, exclude, !cmd.NoAdf)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, bs, 0644); err != nil {
		return errors.Wrap(err, "writing output")
	}
	fmt.Println("Wrote", out)
	return nil
}

func runList(cmd *ListCmd) error {
	bs, err := os.ReadFile(cmd.File)
	if err != nil {
		return errors.Wrap(err, "reading input")
	}
	if rsrc.IsAppleDouble(bs) {
		container, err := radf.Unpack(bs)
		if err != nil {
			return err
		}
		bs = container.ResourceFork()
	}
	fork, err := rfork.Decode(bs)
	if err != nil {
		return err
	}
	for _, warning := range fork.Warnings {
		fmt.Fprintln(os.Stderr, "[WARNING]", warning)
	}

	fmt.Printf("%-4s %6s %8s  %s\n", "Type", "ID", "Size", "Name")
	fmt.Printf("%s %s %s  %s\n", strings.Repeat("-", 4), strings.Repeat("-", 6), strings.Repeat("-", 8), strings.Repeat("-", 32))
	for _, res := range fork.OrderedFlatList() {
		fmt.Printf(
			"%-4s %6d %8d  %s\n",
			res.Type.String(), res.ID, len(res.Data), rtype.DecodeLegacyText(res.Name),
		)
	}
	return nil
}

func Start() {
	args := Args{}
	parser := arg.MustParse(&args)

	var err error
	switch {
	case args.Extract != nil:
		err = runExtract(args.Extract)
	case args.Create != nil:
		err = runCreate(args.Create)
	case args.List != nil:
		err = runList(args.List)
	case args.Interactive != nil:
		ui.Start()
	default:
		parser.WriteHelp(os.Stdout)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
