package wrobuildbin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"shanhu.io/misc/errcode"
	"shanhu.io/text/lexing"
	"shanhu.io/wrobuild"
)

func printModelErrs(err error) {
	var merr *wrobuild.MalformedModelError
	if !errors.As(err, &merr) {
		return
	}
	wd, wdErr := os.Getwd()
	if wdErr != nil {
		wd = ""
	}
	lexing.FprintErrs(os.Stderr, merr.Errs, wd)
}

func cmdBuild(args []string) error {
	flags := cmdFlags.New()
	cf := declareConfigFlags(flags)
	flags.ParseArgs(args)

	config, err := cf.load()
	if err != nil {
		return err
	}
	if len(config.TargetList()) == 0 {
		return errcode.InvalidArgf("no target groups")
	}

	d, err := wrobuild.NewStatDetector(config)
	if err != nil {
		return errcode.Annotate(err, "create change detector")
	}
	defer d.Close()

	b := wrobuild.NewBuilder(config, d)
	res, err := b.Build(context.Background())
	if err != nil {
		printModelErrs(err)
		return err
	}
	if !res.NoChange {
		fmt.Printf(
			"%d regenerated, %d up to date\n",
			len(res.Regenerated), len(res.Skipped),
		)
	}
	return nil
}

func cmdResolve(args []string) error {
	flags := cmdFlags.New()
	model := flags.String(
		"model", "src/main/webapp/WEB-INF/wro.xml", "group descriptor file",
	)
	args = flags.ParseArgs(args)

	m, err := wrobuild.ReadModel(*model)
	if err != nil {
		printModelErrs(err)
		return err
	}
	names := args
	if len(names) == 0 {
		names = m.Names()
	}
	for _, name := range names {
		js, err := m.JS(name)
		if err != nil {
			return err
		}
		css, err := m.CSS(name)
		if err != nil {
			return err
		}
		fmt.Printf("%s:\n", name)
		fmt.Printf("  js: %s\n", strings.Join(js, " "))
		fmt.Printf("  css: %s\n", strings.Join(css, " "))
	}
	return nil
}

func cmdSnapshot(args []string) error {
	flags := cmdFlags.New()
	cf := declareConfigFlags(flags)
	flags.ParseArgs(args)

	config, err := cf.load()
	if err != nil {
		return err
	}
	if config.Snapshot == "" {
		return errcode.InvalidArgf("no snapshot file")
	}
	d, err := wrobuild.NewStatDetector(config)
	if err != nil {
		return errcode.Annotate(err, "create change detector")
	}
	defer d.Close()
	return d.Commit()
}
