// Package carrot provides the public API for the carrot neural node library.
//
// It exposes the atomic computational unit of a network: a node that can be
// wired into arbitrary topologies, including recurrent, self-connected and
// gated ones, and that learns online through decayed eligibility traces.
//
// Example:
//
//	in := carrot.NewNode(carrot.NodeTypeInput)
//	out := carrot.NewNode(carrot.NodeTypeOutput)
//	if _, err := in.Connect(out); err != nil {
//	    log.Fatal(err)
//	}
//
//	in.ActivateValue(0.5)
//	out.Activate()
//	target := 1.0
//	out.Propagate(0.3, 0, true, &target)
package carrot

import (
	applicationNeural "github.com/jocieb/carrot/internal/application/neural"
	domainNeural "github.com/jocieb/carrot/internal/domain/neural"
	infraNeural "github.com/jocieb/carrot/internal/infrastructure/neural"
	"github.com/jocieb/carrot/internal/shared"
)

// Re-export types for the public API
type (
	// Core types
	Node        = infraNeural.Node
	Connection  = infraNeural.Connection
	Group       = infraNeural.Group
	ErrorSignal = infraNeural.ErrorSignal
	XTrace      = infraNeural.XTrace

	// Domain types
	NodeType       = domainNeural.NodeType
	NodeRecord     = domainNeural.NodeRecord
	ActivationType = domainNeural.ActivationType
	MutationKind   = domainNeural.MutationKind
	MutationMethod = domainNeural.MutationMethod
	Sample         = domainNeural.Sample
	TrainingConfig = domainNeural.TrainingConfig

	// Application types
	Trainer        = applicationNeural.Trainer
	TrainingResult = applicationNeural.TrainingResult

	// Persistence types
	NodeStore      = infraNeural.NodeStore
	MemoryStore    = infraNeural.MemoryStore
	SQLiteStore    = infraNeural.SQLiteStore
	PostgresStore  = infraNeural.PostgresStore
	PostgresConfig = infraNeural.PostgresConfig

	// Configuration
	Config      = shared.Config
	StoreConfig = shared.StoreConfig
)

// Node types
const (
	NodeTypeInput    = domainNeural.NodeTypeInput
	NodeTypeHidden   = domainNeural.NodeTypeHidden
	NodeTypeOutput   = domainNeural.NodeTypeOutput
	NodeTypeConstant = domainNeural.NodeTypeConstant
)

// Activation functions
const (
	ActivationLogistic     = domainNeural.ActivationLogistic
	ActivationTanh         = domainNeural.ActivationTanh
	ActivationIdentity     = domainNeural.ActivationIdentity
	ActivationStep         = domainNeural.ActivationStep
	ActivationReLU         = domainNeural.ActivationReLU
	ActivationLeakyReLU    = domainNeural.ActivationLeakyReLU
	ActivationSoftsign     = domainNeural.ActivationSoftsign
	ActivationSinusoid     = domainNeural.ActivationSinusoid
	ActivationGaussian     = domainNeural.ActivationGaussian
	ActivationBentIdentity = domainNeural.ActivationBentIdentity
	ActivationAbsolute     = domainNeural.ActivationAbsolute
	ActivationInverse      = domainNeural.ActivationInverse
)

// Mutation kinds
const (
	MutationModActivation = domainNeural.MutationModActivation
	MutationModBias       = domainNeural.MutationModBias
)

// Constructors and catalog lookups
var (
	NewNode               = infraNeural.NewNode
	NewConnection         = infraNeural.NewConnection
	NewGroup              = infraNeural.NewGroup
	NodeFromRecord        = infraNeural.NodeFromRecord
	SeedRandom            = infraNeural.SeedRandom
	NewTrainer            = applicationNeural.NewTrainer
	NewMemoryStore        = infraNeural.NewMemoryStore
	NewSQLiteStore        = infraNeural.NewSQLiteStore
	NewPostgresStore      = infraNeural.NewPostgresStore
	NewPostgresStoreDSN   = infraNeural.NewPostgresStoreDSN
	ActivationByName      = domainNeural.ActivationByName
	AllActivations        = domainNeural.AllActivations
	ModActivation         = domainNeural.ModActivation
	ModBias               = domainNeural.ModBias
	KnownMutation         = domainNeural.KnownMutation
	DefaultTrainingConfig = domainNeural.DefaultTrainingConfig
	DefaultConfig         = shared.DefaultConfig
	LoadConfig            = shared.LoadConfig
	SetActiveConfig       = shared.SetActive
	ActiveConfig          = shared.Active
)
