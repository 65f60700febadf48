// Package main contains the cli implementation of the tool. It uses
// cobra for cli tool implementation.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "aquaform/internal/backend/mysqlb"
	_ "aquaform/internal/backend/postgrest"
	"aquaform/internal/config"
	"aquaform/internal/core"
	"aquaform/internal/modelgen"
	"aquaform/internal/output"
	"aquaform/internal/reconciler"
	"aquaform/internal/state"
)

type commonFlags struct {
	config  string
	stateFl string
	backend string
}

func (f *commonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "YAML config file (repeatable via discovery when empty)")
	cmd.Flags().StringVarP(&f.stateFl, "state", "s", "", "State file path (default depends on --backend)")
	cmd.Flags().StringVarP(&f.backend, "backend", "b", string(core.BackendPostgresREST), "Backend: postgres_rest or mysql")
}

func (f *commonFlags) resolveBackend() (core.Backend, error) {
	switch core.Backend(f.backend) {
	case core.BackendPostgresREST:
		return core.BackendPostgresREST, nil
	case core.BackendMySQL:
		return core.BackendMySQL, nil
	default:
		return "", fmt.Errorf("unsupported backend: %s", f.backend)
	}
}

func (f *commonFlags) resolveStatePath(b core.Backend) string {
	if f.stateFl != "" {
		return f.stateFl
	}
	if b == core.BackendMySQL {
		return "aquamy.state.json"
	}
	return "aqua.state.json"
}

func (f *commonFlags) resolveConfigPaths(b core.Backend) ([]string, error) {
	if f.config != "" {
		return []string{f.config}, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("determining working directory: %w", err)
	}
	return config.Discover(cwd, b)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "aqua",
		Short: "Declarative schema reconciler for Postgres-REST and MySQL",
	}

	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(applyCmd())
	rootCmd.AddCommand(destroyCmd())
	rootCmd.AddCommand(modelCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initCmd() *cobra.Command {
	flags := &commonFlags{}
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an empty state file",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func runInit(flags *commonFlags) error {
	b, err := flags.resolveBackend()
	if err != nil {
		return err
	}
	statePath := flags.resolveStatePath(b)

	created, err := reconciler.Init(statePath)
	if err != nil {
		return fmt.Errorf("initializing state: %w", err)
	}
	if created {
		fmt.Printf("[INIT] created %s\n", statePath)
	} else {
		fmt.Printf("[INIT] %s already exists\n", statePath)
	}
	return nil
}

func planCmd() *cobra.Command {
	flags := &commonFlags{}
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the changes that apply would make",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runPlan(flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func runPlan(flags *commonFlags) error {
	r, closeStore, err := loadReconciler(flags)
	if err != nil {
		return err
	}
	defer closeStore()

	changes := r.Plan()
	output.Plan(os.Stdout, changes)
	return nil
}

func applyCmd() *cobra.Command {
	flags := &commonFlags{}
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Reconcile the backend to match the desired configuration",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runApply(flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func runApply(flags *commonFlags) error {
	r, closeStore, err := loadReconciler(flags)
	if err != nil {
		return err
	}
	defer closeStore()

	results, err := r.Apply(context.Background())
	output.ApplyResults(os.Stdout, results)
	if err != nil {
		return fmt.Errorf("apply: %w", err)
	}
	if anyFailed(results) {
		return fmt.Errorf("apply: one or more resources failed")
	}
	return nil
}

func destroyCmd() *cobra.Command {
	flags := &commonFlags{}
	var resource string
	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Remove resources from the backend",
		RunE: func(_ *cobra.Command, _ []string) error {
			var resourceID *string
			if resource != "" {
				resourceID = &resource
			}
			return runDestroy(flags, resourceID)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&resource, "resource", "r", "", "Specific resource ID to remove (default: all)")
	return cmd
}

func runDestroy(flags *commonFlags, resourceID *string) error {
	r, closeStore, err := loadReconciler(flags)
	if err != nil {
		return err
	}
	defer closeStore()

	results, err := r.Destroy(context.Background(), resourceID)
	output.ApplyResults(os.Stdout, results)
	if err != nil {
		return fmt.Errorf("destroy: %w", err)
	}
	if anyFailed(results) {
		return fmt.Errorf("destroy: one or more resources failed")
	}
	return nil
}

func modelCmd() *cobra.Command {
	var backendName string
	var outFile string
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Write a starter YAML configuration file",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runModel(backendName, outFile)
		},
	}
	cmd.Flags().StringVarP(&backendName, "backend", "b", string(core.BackendPostgresREST), "Backend: postgres_rest or mysql")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Output file name (default depends on --backend)")
	return cmd
}

func runModel(backendName, outFile string) error {
	content, defaultName, err := modelgen.Generate(backendName)
	if err != nil {
		return err
	}
	if outFile == "" {
		outFile = defaultName
	}
	if err := os.WriteFile(outFile, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outFile, err)
	}
	fmt.Printf("[MODEL] wrote %s\n", outFile)
	return nil
}

// loadReconciler discovers/loads the config, opens the state store, and
// returns a ready-to-use Reconciler plus a close function releasing the
// store's advisory lock.
func loadReconciler(flags *commonFlags) (*reconciler.Reconciler, func(), error) {
	b, err := flags.resolveBackend()
	if err != nil {
		return nil, nil, err
	}

	paths, err := flags.resolveConfigPaths(b)
	if err != nil {
		return nil, nil, fmt.Errorf("discovering config files: %w", err)
	}

	result := config.Load(paths, b)
	for _, loadErr := range result.Errors {
		fmt.Fprintf(os.Stderr, "[CONFIG] %v\n", loadErr)
	}

	statePath := flags.resolveStatePath(b)
	store, err := state.Open(statePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening state: %w", err)
	}

	r := reconciler.New(b, result.Tables, store)
	return r, func() { _ = store.Close() }, nil
}

func anyFailed(results []reconciler.Result) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}
