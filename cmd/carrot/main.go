// Package main provides the CLI entry point for carrot.
package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jocieb/carrot/pkg/carrot"
)

var (
	version = "0.2.0"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "carrot",
	Short: "Carrot - recurrent neural node toolkit",
	Long: `Carrot is a neural node toolkit built around a single atomic unit:
a node that can be wired into arbitrary topologies, including recurrent,
self-connected and gated ones, and that learns online through decayed
eligibility traces.

It provides:
  - Forward activation with and without trace maintenance
  - An online backward learning rule with momentum and batched commits
  - Wiring, gating, mutation and reset operations
  - Node-record persistence with SQLite and PostgreSQL backends`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath == "" {
			return nil
		}
		cfg, err := carrot.LoadConfig(configPath)
		if err != nil {
			return err
		}
		carrot.SetActiveConfig(cfg)
		return nil
	},
}

// ============================================================================
// Demo Command
// ============================================================================

var demoIterations int
var demoRate float64
var demoHidden int

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Train a small network on XOR",
	Long:  `Train a 2-input, one-hidden-group, 1-output network on XOR and print the learned outputs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))

		inputs := []*carrot.Node{
			carrot.NewNode(carrot.NodeTypeInput),
			carrot.NewNode(carrot.NodeTypeInput),
		}
		hidden := carrot.NewGroup(demoHidden, carrot.NodeTypeHidden)
		output := carrot.NewNode(carrot.NodeTypeOutput)

		for _, in := range inputs {
			for _, conn := range in.ConnectGroup(hidden) {
				conn.Weight = rng.Float64()*2 - 1
			}
		}
		for _, node := range hidden.Nodes {
			conn, err := node.Connect(output)
			if err != nil {
				return err
			}
			conn.Weight = rng.Float64()*2 - 1
		}

		config := carrot.DefaultTrainingConfig()
		config.Iterations = demoIterations
		config.Rate = demoRate
		config.ErrorTarget = 0.005

		trainer, err := carrot.NewTrainer(inputs, hidden.Nodes, []*carrot.Node{output}, config)
		if err != nil {
			return err
		}

		set := []carrot.Sample{
			{Input: []float64{0, 0}, Target: []float64{0}},
			{Input: []float64{0, 1}, Target: []float64{1}},
			{Input: []float64{1, 0}, Target: []float64{1}},
			{Input: []float64{1, 1}, Target: []float64{0}},
		}

		result, err := trainer.Train(set)
		if err != nil {
			return err
		}

		fmt.Printf("trained %d iterations, mse %.6f\n", result.Iterations, result.Error)
		for _, sample := range set {
			out, err := trainer.Predict(sample.Input)
			if err != nil {
				return err
			}
			fmt.Printf("  %v -> %.4f (want %v)\n", sample.Input, out[0], sample.Target[0])
		}
		return nil
	},
}

// ============================================================================
// Store Commands
// ============================================================================

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage persisted node records",
}

func openStore() (carrot.NodeStore, error) {
	cfg := carrot.ActiveConfig()

	var store carrot.NodeStore
	switch cfg.Store.Backend {
	case "", "sqlite":
		store = carrot.NewSQLiteStore(cfg.Store.Path)
	case "postgres":
		store = carrot.NewPostgresStoreDSN(cfg.Store.DSN)
	case "memory":
		store = carrot.NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	if err := store.Initialize(); err != nil {
		return nil, err
	}
	return store, nil
}

var storeSaveType string

var storeSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Create a fresh node and persist its record",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		node := carrot.NewNode(carrot.NodeType(storeSaveType))
		record := node.Record()
		if err := store.Save(record); err != nil {
			return err
		}

		return printJSON(record)
	},
}

var storeLoadCmd = &cobra.Command{
	Use:   "load <id>",
	Short: "Load a persisted node record by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		record, err := store.Load(args[0])
		if err != nil {
			return err
		}
		if _, err := carrot.NodeFromRecord(record); err != nil {
			return fmt.Errorf("record %s does not reconstruct: %w", record.ID, err)
		}

		return printJSON(record)
	},
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List persisted node records",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.List()
		if err != nil {
			return err
		}
		return printJSON(records)
	},
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")

	demoCmd.Flags().IntVar(&demoIterations, "iterations", 2000, "training iterations")
	demoCmd.Flags().Float64Var(&demoRate, "rate", 0.3, "learning rate")
	demoCmd.Flags().IntVar(&demoHidden, "hidden", 4, "hidden group size")

	storeSaveCmd.Flags().StringVar(&storeSaveType, "type", "hidden", "node type (input|hidden|output|constant)")

	storeCmd.AddCommand(storeSaveCmd)
	storeCmd.AddCommand(storeLoadCmd)
	storeCmd.AddCommand(storeListCmd)

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(storeCmd)
}
