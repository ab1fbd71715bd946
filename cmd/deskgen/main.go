package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Ravana-indus/deskgen/pkg/metadata"
	"github.com/Ravana-indus/deskgen/pkg/orchestrator"
	"github.com/Ravana-indus/deskgen/pkg/syncer"
)

var (
	flagMetadataDir string
	flagOpenAPI     string
	flagHTTPBase    string
	flagPreset      string
	flagVerbose     bool
)

func main() {
	root := &cobra.Command{
		Use:           "deskgen",
		Short:         "Compile entity metadata into UI contracts and synced client artifacts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagMetadataDir, "metadata-dir", "", "directory of entity metadata bundles (YAML)")
	root.PersistentFlags().StringVar(&flagOpenAPI, "openapi", "", "OpenAPI document to derive metadata from")
	root.PersistentFlags().StringVar(&flagHTTPBase, "http", "", "base URL of a remote schema service")
	root.PersistentFlags().StringVar(&flagPreset, "preset", "", "style preset: plain, dense or spacious")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging")

	root.AddCommand(newContractCmd(), newGenerateCmd(), newSyncCmd(), newWatchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "deskgen:", err)
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	if flagVerbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func resolveSource() (metadata.Source, error) {
	switch {
	case flagMetadataDir != "":
		return metadata.NewDirSource(flagMetadataDir), nil
	case flagOpenAPI != "":
		raw, err := os.ReadFile(flagOpenAPI)
		if err != nil {
			return nil, fmt.Errorf("read openapi document: %w", err)
		}
		return metadata.NewOpenAPISource(raw), nil
	case flagHTTPBase != "":
		return metadata.NewHTTPSource(flagHTTPBase), nil
	default:
		return nil, errors.New("one of --metadata-dir, --openapi or --http is required")
	}
}

func newOrchestrator() (*orchestrator.Orchestrator, *zap.Logger, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, nil, err
	}
	source, err := resolveSource()
	if err != nil {
		return nil, nil, err
	}
	o, err := orchestrator.New(
		orchestrator.WithSource(source),
		orchestrator.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}
	return o, logger, nil
}

func newContractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contract <entity>",
		Short: "Build and print the UI contract for an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, logger, err := newOrchestrator()
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			c, err := o.GetContract(cmd.Context(), args[0], flagPreset)
			if err != nil {
				return err
			}
			encoded, err := json.MarshalIndent(c, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
			return nil
		},
	}
}

func newGenerateCmd() *cobra.Command {
	var (
		outDir     string
		asArchive  bool
		bundlePath string
	)
	cmd := &cobra.Command{
		Use:   "generate <entity>",
		Short: "Render artifacts for an entity without merging",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, logger, err := newOrchestrator()
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			mode := orchestrator.OutputInline
			if asArchive {
				mode = orchestrator.OutputArchive
			}
			result, err := o.Generate(cmd.Context(), args[0], flagPreset, mode)
			if err != nil {
				return err
			}
			for _, warning := range result.Warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", warning.String())
			}

			if asArchive {
				encoded, err := json.MarshalIndent(result.Bundle, "", "  ")
				if err != nil {
					return err
				}
				if bundlePath != "" {
					return os.WriteFile(bundlePath, encoded, 0o644)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
				return nil
			}

			for _, artifact := range result.Artifacts {
				if outDir == "" {
					fmt.Fprintln(cmd.OutOrStdout(), artifact.RelativePath)
					continue
				}
				target := filepath.Join(outDir, filepath.FromSlash(artifact.RelativePath))
				if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
					return err
				}
				if err := os.WriteFile(target, []byte(artifact.Content), 0o644); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "wrote", target)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "write artifacts under this directory (plain write, no merge)")
	cmd.Flags().BoolVar(&asArchive, "archive", false, "emit a packed bundle instead of individual files")
	cmd.Flags().StringVar(&bundlePath, "bundle", "", "write the bundle JSON to this file instead of stdout")
	return cmd
}

func newSyncCmd() *cobra.Command {
	var (
		dest        string
		strategyRaw string
		yes         bool
	)
	cmd := &cobra.Command{
		Use:   "sync <entity>...",
		Short: "Generate and merge artifacts into a destination tree",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			strategy, err := syncer.ParseStrategy(strategyRaw)
			if err != nil {
				return err
			}
			if strategy == syncer.StrategyOverwriteAuto && !yes {
				confirmed := false
				prompt := &survey.Confirm{
					Message: fmt.Sprintf("overwrite-auto removes orphaned generated regions under %s. Continue?", dest),
				}
				if err := survey.AskOne(prompt, &confirmed); err != nil {
					return err
				}
				if !confirmed {
					return errors.New("aborted")
				}
			}

			o, logger, err := newOrchestrator()
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			return runSync(cmd, o, args, dest, strategy)
		},
	}
	cmd.Flags().StringVar(&dest, "dest", ".", "destination root for generated files")
	cmd.Flags().StringVar(&strategyRaw, "strategy", string(syncer.StrategyRespectManual), "merge strategy: respect-manual or overwrite-auto")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the overwrite-auto confirmation prompt")
	return cmd
}

func runSync(cmd *cobra.Command, o *orchestrator.Orchestrator, entities []string, dest string, strategy syncer.Strategy) error {
	conflicts := 0
	for _, entity := range entities {
		result, err := o.Sync(cmd.Context(), entity, flagPreset, dest, strategy)
		if err != nil {
			return fmt.Errorf("%s: %w", entity, err)
		}
		for _, warning := range result.Warnings {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning:", warning.String())
		}
		for _, r := range result.Results {
			line := fmt.Sprintf("%-10s %s", r.Status, r.Path)
			if r.Reason != "" {
				line += "  (" + r.Reason + ")"
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
			if r.Status == syncer.StatusConflict || r.Status == syncer.StatusFailed {
				conflicts++
			}
		}
	}
	if conflicts > 0 {
		return fmt.Errorf("%d file(s) need attention", conflicts)
	}
	return nil
}

func newWatchCmd() *cobra.Command {
	var (
		dest        string
		strategyRaw string
		debounce    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch <entity>...",
		Short: "Re-sync entities whenever their metadata bundles change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagMetadataDir == "" {
				return errors.New("watch requires --metadata-dir")
			}
			strategy, err := syncer.ParseStrategy(strategyRaw)
			if err != nil {
				return err
			}
			o, logger, err := newOrchestrator()
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return err
			}
			defer func() {
				_ = watcher.Close()
			}()
			if err := watcher.Add(flagMetadataDir); err != nil {
				return err
			}

			// Initial pass so the tree is current before watching.
			if err := runSync(cmd, o, args, dest, strategy); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "sync:", err)
			}

			logger.Info("watching for metadata changes", zap.String("dir", flagMetadataDir))
			var timer *time.Timer
			pending := make(chan struct{}, 1)
			for {
				select {
				case <-ctx.Done():
					return nil
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
						continue
					}
					if !strings.HasSuffix(event.Name, ".yaml") && !strings.HasSuffix(event.Name, ".yml") {
						continue
					}
					// Editors fire bursts of events per save; coalesce them.
					if timer != nil {
						timer.Stop()
					}
					timer = time.AfterFunc(debounce, func() {
						select {
						case pending <- struct{}{}:
						default:
						}
					})
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					logger.Warn("watch error", zap.Error(err))
				case <-pending:
					if err := runSync(cmd, o, args, dest, strategy); err != nil {
						fmt.Fprintln(cmd.ErrOrStderr(), "sync:", err)
					}
				}
			}
		},
	}
	cmd.Flags().StringVar(&dest, "dest", ".", "destination root for generated files")
	cmd.Flags().StringVar(&strategyRaw, "strategy", string(syncer.StrategyRespectManual), "merge strategy: respect-manual or overwrite-auto")
	cmd.Flags().DurationVar(&debounce, "debounce", 300*time.Millisecond, "delay before re-syncing after a change")
	return cmd
}
