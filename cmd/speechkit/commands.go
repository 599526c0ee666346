package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kbukum/speechkit/audio"
	"github.com/kbukum/speechkit/plugin"
	pluginassemblyai "github.com/kbukum/speechkit/plugin/assemblyai"
	"github.com/kbukum/speechkit/plugin/findfile"
	"github.com/kbukum/speechkit/util"
	"github.com/kbukum/speechkit/version"
)

// parse parses args and checks the positional argument count.
func parse(g *globalFlags, args []string, positional int, synopsis string) ([]string, error) {
	g.fs.Usage = func() {
		_, _ = fmt.Fprintf(g.fs.Output(), "Usage: speechkit %s\n\n%s", synopsis, g.fs.FlagUsages())
	}
	if err := g.fs.Parse(args); err != nil {
		return nil, err
	}
	if rest := g.fs.Args(); len(rest) != positional {
		return nil, usagef("%s: expected %d argument(s), got %d\nUsage: speechkit %s", g.fs.Name(), positional, len(rest), synopsis)
	}
	return g.fs.Args(), nil
}

func runTranscribe(ctx context.Context, cl *cli, args []string) error {
	g := newFlagSet("transcribe", cl)
	pairs := g.fs.StringArrayP("param", "p", nil, "transcription parameter as key=value (repeatable)")
	raw := g.fs.String("params", "", "transcription parameters as a JSON object")
	rest, err := parse(g, args, 1, "transcribe <url-or-path> [--param key=value]... [--params json]")
	if err != nil {
		return err
	}
	params, err := parseParams(*pairs, *raw)
	if err != nil {
		return err
	}

	rt, err := g.setup()
	if err != nil {
		return err
	}
	if err := rt.addAssemblyAI(); err != nil {
		return err
	}
	fnArgs := plugin.Arguments{"input": rest[0]}
	if params != nil {
		fnArgs["params"] = params
	}
	return rt.invoke(ctx, cl.stdout, rt.cfg.AssemblyAI.Plugin.Name, pluginassemblyai.FunctionTranscribe, fnArgs)
}

func runUpload(ctx context.Context, cl *cli, args []string) error {
	g := newFlagSet("upload", cl)
	rest, err := parse(g, args, 1, "upload <path>")
	if err != nil {
		return err
	}
	rt, err := g.setup()
	if err != nil {
		return err
	}
	if err := rt.addAssemblyAI(); err != nil {
		return err
	}
	return rt.invoke(ctx, cl.stdout, rt.cfg.AssemblyAI.Plugin.Name, pluginassemblyai.FunctionUpload,
		plugin.Arguments{"path": rest[0]})
}

func runLocate(ctx context.Context, cl *cli, args []string) error {
	g := newFlagSet("locate", cl)
	folder := g.fs.StringP("folder", "f", "", "common folder: downloads, desktop, documents, music, pictures, videos, user or . (default current directory)")
	rest, err := parse(g, args, 1, "locate <file-name-or-pattern> [--folder name]")
	if err != nil {
		return err
	}
	rt, err := g.setup()
	if err != nil {
		return err
	}
	if err := rt.addFindFile(); err != nil {
		return err
	}
	return rt.invoke(ctx, cl.stdout, findfile.PluginName, "LocateFile",
		plugin.Arguments{"fileName": rest[0], "commonFolderName": *folder})
}

func runProbe(_ context.Context, cl *cli, args []string) error {
	g := newFlagSet("probe", cl)
	rest, err := parse(g, args, 1, "probe <path>")
	if err != nil {
		return err
	}
	info, err := audio.ProbeFile(rest[0])
	if err != nil {
		return err
	}
	out := struct {
		audio.Info
		Duration string `json:"duration"`
	}{Info: info, Duration: info.Duration.String()}

	enc := json.NewEncoder(cl.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func runServe(ctx context.Context, cl *cli, args []string) error {
	g := newFlagSet("serve", cl)
	if _, err := parse(g, args, 0, "serve"); err != nil {
		return err
	}
	rt, err := g.setup()
	if err != nil {
		return err
	}
	if err := rt.addAssemblyAI(); err != nil {
		return err
	}
	if err := rt.addFindFile(); err != nil {
		return err
	}
	return rt.serve(ctx)
}

func runVersion(_ context.Context, cl *cli, args []string) error {
	g := newFlagSet("version", cl)
	if _, err := parse(g, args, 0, "version"); err != nil {
		return err
	}
	v := version.GetVersionInfo()
	_, err := fmt.Fprintf(cl.stdout, "%s %s (commit %s, built %s, %s)\n",
		version.Product, v.Version, util.Coalesce(v.GitCommit, "unknown"), util.Coalesce(v.BuildTime, "unknown"), v.GoVersion)
	return err
}

// setup loads the configuration and bootstraps the application.
func (g *globalFlags) setup() (*runtime, error) {
	cfg, err := g.load()
	if err != nil {
		return nil, err
	}
	return newRuntime(cfg)
}
