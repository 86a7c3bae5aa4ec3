package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/miladsoleymani/hashmux/core"
)

func newMatchCmd(c *cli) *cobra.Command {
	var routes []string
	cmd := &cobra.Command{
		Use:   "match <fragment>...",
		Short: "Dispatch fragments against the configured routes and print the outcome",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns := append(append([]string{}, c.cfg.Routes...), routes...)
			if len(patterns) == 0 {
				return errors.New("no routes: set routes in the config file or pass --route")
			}
			r, err := c.matchRouter(cmd.OutOrStdout(), patterns)
			if err != nil {
				return err
			}
			for _, fragment := range args {
				if !strings.HasPrefix(fragment, "#") {
					fragment = "#" + fragment
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", fragment)
				nav := r.Dispatch(fragment)
				fmt.Fprintf(cmd.OutOrStdout(), "  => %s (%d matching)\n", nav.State, nav.Matches)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&routes, "route", "r", nil, "route pattern, in addition to configured ones (repeatable)")
	return cmd
}

// matchRouter builds a router whose routes print their request and fall
// through to the next match.
func (c *cli) matchRouter(w io.Writer, patterns []string) (*core.Router, error) {
	r := core.New(nil, append(c.cfg.RouterOptions(), core.WithLogger(c.logger))...)
	for _, pattern := range patterns {
		if err := r.AddRoute(pattern, printRoute(w, pattern)); err != nil {
			return nil, err
		}
	}
	err := r.Fallback(func(err error, fragment string, code int) {
		fmt.Fprintf(w, "  error %d: %v\n", code, err)
	})
	if err != nil {
		return nil, err
	}
	for _, code := range []int{core.CodeNotFound, core.CodeInternal} {
		if err := r.Errors(code, func(err error, fragment string, code int) {
			fmt.Fprintf(w, "  error %d: %v\n", code, err)
		}); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func printRoute(w io.Writer, pattern string) core.RouteAction {
	return func(req *core.Request, next core.ContinueFunc) {
		fmt.Fprintf(w, "  %s", pattern)
		if len(req.Params) > 0 {
			fmt.Fprintf(w, " params=%s", formatMap(req.Params))
		}
		if len(req.Splat) > 0 {
			fmt.Fprintf(w, " splat=%q", req.Splat)
		}
		if len(req.Query) > 0 {
			fmt.Fprintf(w, " query=%s", formatMap(req.Query))
		}
		fmt.Fprintln(w)
		next(true, nil)
	}
}

func formatMap(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%s=%q", k, m[k])
	}
	return "{" + strings.Join(pairs, " ") + "}"
}
