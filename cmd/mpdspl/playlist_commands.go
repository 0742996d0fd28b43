package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mpdspl/internal/playlist"
)

func newCreateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> <rule>...",
		Short: "Create a playlist from a ruleset and generate it",
		Long: "Create compiles the given rules, saves the playlist definition, and " +
			"writes its m3u file. A track matches when every rule matches.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			ruleset := strings.Join(args[1:], " ")

			opts, err := ctx.ruleOptions()
			if err != nil {
				return err
			}
			p, err := playlist.New(name, ruleset, opts)
			if err != nil {
				return err
			}

			runner, err := ctx.ensureRunner()
			if err != nil {
				return err
			}
			set, err := runner.RefreshTracks(cmd.Context(), false)
			if err != nil {
				return err
			}
			result, err := runner.Apply(p, set)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created playlist %q with %d tracks\n", result.Name, result.Tracks)
			if result.M3UPath != "" {
				fmt.Fprintf(out, "Wrote %s\n", result.M3UPath)
			}
			return nil
		},
	}
}

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Regenerate every saved playlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.ensureRunner()
			if err != nil {
				return err
			}
			summary, err := runner.Run(cmd.Context(), force)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(summary.Playlists) == 0 {
				fmt.Fprintln(out, "No saved playlists; nothing to regenerate")
				return nil
			}
			rows := make([][]string, 0, len(summary.Playlists))
			for _, result := range summary.Playlists {
				rows = append(rows, []string{result.Name, strconv.Itoa(result.Tracks), result.M3UPath})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Playlist", "Tracks", "File"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Rebuild the track cache even when fresh")
	return cmd
}

func newEvalCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <rule>...",
		Short: "Evaluate a ruleset and print matching paths",
		Long: "Eval compiles the rules, matches them against the library, and prints " +
			"one path per line without saving anything.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := ctx.ruleOptions()
			if err != nil {
				return err
			}
			p, err := playlist.New("eval", strings.Join(args, " "), opts)
			if err != nil {
				return err
			}

			runner, err := ctx.ensureRunner()
			if err != nil {
				return err
			}
			set, err := runner.RefreshTracks(cmd.Context(), false)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, track := range p.Evaluate(set) {
				fmt.Fprintln(out, track.File)
			}
			return nil
		},
	}
}

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved playlists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.store()
			if err != nil {
				return err
			}
			playlists, err := store.List()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(playlists) == 0 {
				fmt.Fprintln(out, "No saved playlists")
				return nil
			}
			rows := make([][]string, 0, len(playlists))
			for _, p := range playlists {
				rows = append(rows, []string{p.Name, strconv.Itoa(len(p.Tracks)), p.Ruleset})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Name", "Tracks", "Ruleset"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var showTracks bool

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a saved playlist's rules and tracks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.store()
			if err != nil {
				return err
			}
			p, err := store.Load(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Playlist: %s\n", p.Name)
			fmt.Fprintf(out, "Tracks:   %d\n", len(p.Tracks))

			rows := make([][]string, 0, len(p.Rules()))
			for _, rule := range p.Rules() {
				negated := ""
				if rule.Negate {
					negated = "not"
				}
				rows = append(rows, []string{
					fieldTitle(rule.Field),
					rule.Kind.String(),
					string(rule.Operator),
					rule.Value,
					negated,
				})
			}
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable(
					[]string{"Field", "Kind", "Op", "Value", "Negated"},
					rows,
					nil,
				))
			}

			if showTracks {
				for _, track := range p.Tracks {
					fmt.Fprintln(out, track.File)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showTracks, "tracks", false, "Print the matched track paths")
	return cmd
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm", "delete"},
		Short:   "Delete a saved playlist and its m3u file",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.store()
			if err != nil {
				return err
			}
			p, err := store.Load(args[0])
			if err != nil {
				return err
			}
			if err := store.Remove(p.Name); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Removed playlist %q\n", p.Name)

			runner, err := ctx.ensureRunner()
			if err != nil {
				// The definition is gone either way; a broken MPD setup
				// only blocks the m3u cleanup.
				return nil
			}
			if runner.PlaylistDir == "" {
				return nil
			}
			m3u := p.M3UPath(runner.PlaylistDir)
			if err := os.Remove(m3u); err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return nil
				}
				return fmt.Errorf("remove %s: %w", m3u, err)
			}
			fmt.Fprintf(out, "Removed %s\n", m3u)
			return nil
		},
	}
}
