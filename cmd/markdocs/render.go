package main

import (
	"context"
)

// runRender renders one markdown file to a self-contained HTML page.
func runRender(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	source, path, err := resolveInput(positional)
	if err != nil {
		return err
	}

	a, err := openSession(ctx, &f.common, env, path)
	if err != nil {
		return err
	}
	defer func() { _ = a.session.Close() }()

	page, err := a.session.Render(ctx, source)
	if err != nil {
		return withHints(err, a.cfg, a.session.MarkerPath())
	}
	if err := writeOutput(f.output, []byte(page), env); err != nil {
		return err
	}
	if f.output != "" {
		a.notifier.Info("wrote " + f.output)
	}
	return nil
}
