package neat

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"
	yamlv3 "gopkg.in/yaml.v3"
)

// InitialTopologyKind selects how a freshly seeded genome's connections are built.
type InitialTopologyKind int

const (
	TopologyNone InitialTopologyKind = iota
	TopologySparse
	TopologyFull
	TopologyTree
)

func parseTopologyKind(s string) (InitialTopologyKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return TopologyNone, nil
	case "sparse":
		return TopologySparse, nil
	case "full":
		return TopologyFull, nil
	case "tree":
		return TopologyTree, nil
	default:
		return 0, fmt.Errorf("unknown initial_topology %q", s)
	}
}

func (k InitialTopologyKind) String() string {
	switch k {
	case TopologyNone:
		return "none"
	case TopologySparse:
		return "sparse"
	case TopologyFull:
		return "full"
	case TopologyTree:
		return "tree"
	default:
		return "unknown"
	}
}

// DistanceMethod selects the genetic-distance metric. Only Euclidean is fully
// specified; Manhattan and Chebyshev are documented stubs (spec Open Question).
type DistanceMethod int

const (
	DistanceEuclidean DistanceMethod = iota
	DistanceManhattan
	DistanceChebyshev
)

func parseDistanceMethod(s string) (DistanceMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "euclidean", "":
		return DistanceEuclidean, nil
	case "manhattan":
		return DistanceManhattan, nil
	case "chebyshev":
		return DistanceChebyshev, nil
	default:
		return 0, fmt.Errorf("unknown distance_method %q", s)
	}
}

// CullingMethod selects how a species' non-elite members are trimmed before reproduction.
type CullingMethod int

const (
	CullElitism CullingMethod = iota
	CullRandom
	CullRouletteWheel
	CullRank
	CullBoltzmann
)

func parseCullingMethod(s string) (CullingMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "elitism", "":
		return CullElitism, nil
	case "random":
		return CullRandom, nil
	case "roulettewheel", "roulette_wheel":
		return CullRouletteWheel, nil
	case "rank":
		return CullRank, nil
	case "boltzmann":
		return CullBoltzmann, nil
	default:
		return 0, fmt.Errorf("unknown culling_method %q", s)
	}
}

// PairingStrategy selects how parents are chosen for crossover.
type PairingStrategy int

const (
	PairRandom PairingStrategy = iota
	PairFittest
	PairWeakest
	PairAlternating
	PairSimilarFitness
	PairDissimilarFitness
	PairProximity
	PairDiversity
)

func parsePairingStrategy(s string) (PairingStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "random", "":
		return PairRandom, nil
	case "fittest":
		return PairFittest, nil
	case "weakest":
		return PairWeakest, nil
	case "alternating":
		return PairAlternating, nil
	case "similarfitness", "similar_fitness":
		return PairSimilarFitness, nil
	case "dissimilarfitness", "dissimilar_fitness":
		return PairDissimilarFitness, nil
	case "proximity":
		return PairProximity, nil
	case "diversity":
		return PairDiversity, nil
	default:
		return 0, fmt.Errorf("unknown pairing_strategy %q", s)
	}
}

// CrossoverKind selects how two parents' genes are combined into a child.
type CrossoverKind int

const (
	CrossoverUniform CrossoverKind = iota
	CrossoverSinglePoint
	CrossoverTwoPoint
	CrossoverMultipoint
)

func parseCrossoverKind(s string) (CrossoverKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "uniform", "":
		return CrossoverUniform, nil
	case "singlepoint", "single_point":
		return CrossoverSinglePoint, nil
	case "twopoint", "two_point":
		return CrossoverTwoPoint, nil
	case "multipoint":
		return CrossoverMultipoint, nil
	default:
		return 0, fmt.Errorf("unknown crossover_kind %q", s)
	}
}

// MutationMode selects whether mutation picks one operator per genome (Single)
// or gates every operator independently (Multi).
type MutationMode int

const (
	MutationSingle MutationMode = iota
	MutationMulti
)

// PopulationConfig groups run-scale and termination parameters.
type PopulationConfig struct {
	PopulationSize    int     `ini:"population_size"`
	MaxGenerations    int     `ini:"max_generations"`
	RandomSeed        int64   `ini:"random_seed"`
	StoppingFitness   float64 `ini:"stopping_fitness"`
	ResetActivations  bool    `ini:"reset_activations"`
	NumThreads        int     `ini:"num_threads"`
}

// TopologyConfig groups initial-genome-shape parameters.
type TopologyConfig struct {
	NumInputs                    int     `ini:"num_inputs"`
	NumOutputs                   int     `ini:"num_outputs"`
	NumHidden                    int     `ini:"num_hidden"`
	InitialTopologyName          string  `ini:"initial_topology"`
	InitialConnectionProbability float64 `ini:"initial_connection_probability"`

	InitialTopology InitialTopologyKind `ini:"-"`
}

// DistanceConfig groups genetic-distance coefficients.
type DistanceConfig struct {
	SpeciationDistanceThreshold float64 `ini:"speciation_distance_threshold"`
	ExcessCoefficient           float64 `ini:"excess_coefficient"`
	// DisjointCoefficient is accepted for configuration-surface compatibility
	// but is not applied in the distance calculation: disjoint nodes are
	// scaled by ExcessCoefficient, matching original_source/NEAT/Reproduction.cpp.
	DisjointCoefficient float64 `ini:"disjoint_coefficient"`
	MatchingCoefficient         float64 `ini:"matching_coefficient"`
	DistanceExponent            float64 `ini:"distance_exponent"`
	DistanceMethodName          string  `ini:"distance_method"`

	DistanceMethod DistanceMethod `ini:"-"`
}

// SpeciesConfig groups speciation/stagnation parameters.
type SpeciesConfig struct {
	SpeciesElitism           int     `ini:"species_elitism"`
	SurvivalRate             float64 `ini:"survival_rate"`
	MaxStagnation            int     `ini:"max_stagnation"`
	ChooseBestRepresentative bool    `ini:"choose_best_representative"`
	MinSpeciesSize           int     `ini:"min_species_size"`
}

// MutationConfig groups per-operator mutation rates and bounds.
type MutationConfig struct {
	AddNodeRate           float64 `ini:"add_node_rate"`
	AddConnectionRate     float64 `ini:"add_connection_rate"`
	RemoveNodeRate        float64 `ini:"remove_node_rate"`
	RemoveConnectionRate  float64 `ini:"remove_connection_rate"`
	WeightRate            float64 `ini:"weight_mutate_rate"`
	BiasRate              float64 `ini:"bias_mutate_rate"`
	ActivationRate        float64 `ini:"activation_mutate_rate"`
	AggregationRate       float64 `ini:"aggregation_mutate_rate"`
	ToggleConnectionRate  float64 `ini:"toggle_connection_rate"`

	// MutationRate gates whether Mutate runs at all for a given non-elite
	// offspring this generation, independent of the per-operator rates
	// applied once it fires.
	MutationRate float64 `ini:"mutation_rate"`

	WeightVariance float64 `ini:"weight_variance"`
	BiasVariance   float64 `ini:"bias_variance"`
	WeightMin      float64 `ini:"weight_min"`
	WeightMax      float64 `ini:"weight_max"`
	BiasMin        float64 `ini:"bias_min"`
	BiasMax        float64 `ini:"bias_max"`

	DefaultActivationName  string   `ini:"default_activation"`
	AllowedActivationNames []string `ini:"allowed_activations" delim:" "`
	DefaultAggregationName string   `ini:"default_aggregation"`
	AllowedAggregationNames []string `ini:"allowed_aggregations" delim:" "`

	SingleMutation bool `ini:"single_mutation"`

	DefaultActivation   ActivationKind   `ini:"-"`
	AllowedActivations  []ActivationKind `ini:"-"`
	DefaultAggregation  AggregationKind  `ini:"-"`
	AllowedAggregations []AggregationKind `ini:"-"`
	Mode                MutationMode     `ini:"-"`
}

// ReproductionConfig groups crossover/culling/pairing/reintroduction parameters.
type ReproductionConfig struct {
	CrossoverRate           float64 `ini:"crossover_rate"`
	CrossoverKindName       string  `ini:"crossover_kind"`
	CrossoverPoints         int     `ini:"crossover_points"`
	CullingMethodName       string  `ini:"culling_method"`
	PairingStrategyName     string  `ini:"pairing_strategy"`
	ReintroduceBestGenome   bool    `ini:"reintroduce_best_genome"`
	ReintroductionPeriod    int     `ini:"reintroduction_period"`

	CrossoverKind   CrossoverKind   `ini:"-"`
	CullingMethod   CullingMethod   `ini:"-"`
	PairingStrategy PairingStrategy `ini:"-"`
}

// ObservabilityConfig groups logging/checkpointing/output parameters.
type ObservabilityConfig struct {
	Verbose            bool   `ini:"verbose"`
	CheckpointInterval int    `ini:"checkpoint_interval"`
	OutputDir          string `ini:"output_dir"`
	LogEvaluation      bool   `ini:"log_evaluation"`
	LogGenomes         bool   `ini:"log_genomes"`
}

// Config is the flat configuration record loaded from an INI (or YAML) file
// and passed to NewPopulation.
type Config struct {
	Population    PopulationConfig    `ini:"Population"`
	Topology      TopologyConfig      `ini:"Topology"`
	Distance      DistanceConfig      `ini:"Distance"`
	Species       SpeciesConfig       `ini:"Species"`
	Mutation      MutationConfig      `ini:"Mutation"`
	Reproduction  ReproductionConfig  `ini:"Reproduction"`
	Observability ObservabilityConfig `ini:"Observability"`
}

// DefaultConfig returns a Config populated with the values from
// original_source/NEAT/Config.h, translated into this module's field names.
func DefaultConfig() *Config {
	cfg := &Config{
		Population: PopulationConfig{
			PopulationSize:   150,
			MaxGenerations:   1000,
			RandomSeed:       1,
			StoppingFitness:  0,
			ResetActivations: false,
			NumThreads:       1,
		},
		Topology: TopologyConfig{
			NumInputs:                    2,
			NumOutputs:                   1,
			NumHidden:                    0,
			InitialTopologyName:          "sparse",
			InitialConnectionProbability: 0.5,
		},
		Distance: DistanceConfig{
			SpeciationDistanceThreshold: 3.0,
			ExcessCoefficient:           0.95,
			DisjointCoefficient:         0.75,
			MatchingCoefficient:         0.65,
			DistanceExponent:            1.0,
			DistanceMethodName:          "euclidean",
		},
		Species: SpeciesConfig{
			SpeciesElitism:           1,
			SurvivalRate:             0.2,
			MaxStagnation:            15,
			ChooseBestRepresentative: true,
			MinSpeciesSize:           2,
		},
		Mutation: MutationConfig{
			AddNodeRate:             0.03,
			AddConnectionRate:       0.05,
			RemoveNodeRate:          0.02,
			RemoveConnectionRate:    0.02,
			WeightRate:              0.8,
			BiasRate:                0.7,
			ActivationRate:          0.05,
			AggregationRate:         0.01,
			ToggleConnectionRate:    0.01,
			MutationRate:            0.8,
			WeightVariance:          0.5,
			BiasVariance:            0.5,
			WeightMin:               -30,
			WeightMax:               30,
			BiasMin:                 -30,
			BiasMax:                 30,
			DefaultActivationName:   "sigmoid",
			AllowedActivationNames:  []string{"sigmoid", "tanh", "relu", "linear"},
			DefaultAggregationName:  "sum",
			AllowedAggregationNames: []string{"sum", "mean"},
			SingleMutation:          false,
		},
		Reproduction: ReproductionConfig{
			CrossoverRate:         0.75,
			CrossoverKindName:     "uniform",
			CrossoverPoints:       2,
			CullingMethodName:     "elitism",
			PairingStrategyName:   "random",
			ReintroduceBestGenome: false,
			ReintroductionPeriod:  20,
		},
		Observability: ObservabilityConfig{
			Verbose:            true,
			CheckpointInterval: 25,
			OutputDir:          "",
			LogEvaluation:      false,
			LogGenomes:         false,
		},
	}
	_ = cfg.resolve()
	return cfg
}

// LoadConfig reads a Config from an INI file, applying DefaultConfig's values
// for anything the file omits, then validates the result.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	src, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, path)
	if err != nil {
		return nil, newErr(ErrConfigInvalid, fmt.Sprintf("loading %q", path), err)
	}

	sections := []struct {
		name string
		dst  interface{}
	}{
		{"Population", &cfg.Population},
		{"Topology", &cfg.Topology},
		{"Distance", &cfg.Distance},
		{"Species", &cfg.Species},
		{"Mutation", &cfg.Mutation},
		{"Reproduction", &cfg.Reproduction},
		{"Observability", &cfg.Observability},
	}
	for _, s := range sections {
		if !src.HasSection(s.name) {
			continue
		}
		if err := src.Section(s.name).MapTo(s.dst); err != nil {
			return nil, newErr(ErrConfigInvalid, fmt.Sprintf("mapping [%s] section", s.name), err)
		}
	}

	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolve translates the string-valued config fields into their parsed enum
// forms and is called after both DefaultConfig and LoadConfig populate fields.
func (c *Config) resolve() error {
	var err error
	if c.Topology.InitialTopology, err = parseTopologyKind(c.Topology.InitialTopologyName); err != nil {
		return newErr(ErrConfigInvalid, "topology.initial_topology", err)
	}
	if c.Distance.DistanceMethod, err = parseDistanceMethod(c.Distance.DistanceMethodName); err != nil {
		return newErr(ErrConfigInvalid, "distance.distance_method", err)
	}
	if c.Reproduction.CrossoverKind, err = parseCrossoverKind(c.Reproduction.CrossoverKindName); err != nil {
		return newErr(ErrConfigInvalid, "reproduction.crossover_kind", err)
	}
	if c.Reproduction.CullingMethod, err = parseCullingMethod(c.Reproduction.CullingMethodName); err != nil {
		return newErr(ErrConfigInvalid, "reproduction.culling_method", err)
	}
	if c.Reproduction.PairingStrategy, err = parsePairingStrategy(c.Reproduction.PairingStrategyName); err != nil {
		return newErr(ErrConfigInvalid, "reproduction.pairing_strategy", err)
	}
	if c.Mutation.DefaultActivation, err = ParseActivationKind(c.Mutation.DefaultActivationName); err != nil {
		return newErr(ErrConfigInvalid, "mutation.default_activation", err)
	}
	if c.Mutation.DefaultAggregation, err = ParseAggregationKind(c.Mutation.DefaultAggregationName); err != nil {
		return newErr(ErrConfigInvalid, "mutation.default_aggregation", err)
	}
	c.Mutation.AllowedActivations = nil
	for _, name := range c.Mutation.AllowedActivationNames {
		k, err := ParseActivationKind(name)
		if err != nil {
			return newErr(ErrConfigInvalid, "mutation.allowed_activations", err)
		}
		c.Mutation.AllowedActivations = append(c.Mutation.AllowedActivations, k)
	}
	c.Mutation.AllowedAggregations = nil
	for _, name := range c.Mutation.AllowedAggregationNames {
		k, err := ParseAggregationKind(name)
		if err != nil {
			return newErr(ErrConfigInvalid, "mutation.allowed_aggregations", err)
		}
		c.Mutation.AllowedAggregations = append(c.Mutation.AllowedAggregations, k)
	}
	if c.Mutation.SingleMutation {
		c.Mutation.Mode = MutationSingle
	} else {
		c.Mutation.Mode = MutationMulti
	}
	return nil
}

// Validate checks the cross-field invariants a Config must satisfy before it
// can be used to build a Trainer.
func (c *Config) Validate() error {
	if c.Topology.NumInputs <= 0 {
		return newErr(ErrConfigInvalid, "topology.num_inputs must be positive", nil)
	}
	if c.Topology.NumOutputs <= 0 {
		return newErr(ErrConfigInvalid, "topology.num_outputs must be positive", nil)
	}
	if c.Population.PopulationSize <= 0 {
		return newErr(ErrConfigInvalid, "population.population_size must be positive", nil)
	}
	for _, rate := range []struct {
		name string
		v    float64
	}{
		{"add_node_rate", c.Mutation.AddNodeRate},
		{"add_connection_rate", c.Mutation.AddConnectionRate},
		{"remove_node_rate", c.Mutation.RemoveNodeRate},
		{"remove_connection_rate", c.Mutation.RemoveConnectionRate},
		{"weight_mutate_rate", c.Mutation.WeightRate},
		{"bias_mutate_rate", c.Mutation.BiasRate},
		{"activation_mutate_rate", c.Mutation.ActivationRate},
		{"aggregation_mutate_rate", c.Mutation.AggregationRate},
		{"toggle_connection_rate", c.Mutation.ToggleConnectionRate},
		{"mutation_rate", c.Mutation.MutationRate},
		{"crossover_rate", c.Reproduction.CrossoverRate},
	} {
		if rate.v < 0 || rate.v > 1 {
			return newErr(ErrConfigInvalid, fmt.Sprintf("%s must be in [0,1]", rate.name), nil)
		}
	}
	if len(c.Mutation.AllowedActivations) == 0 {
		return newErr(ErrConfigInvalid, "mutation.allowed_activations must not be empty", nil)
	}
	if len(c.Mutation.AllowedAggregations) == 0 {
		return newErr(ErrConfigInvalid, "mutation.allowed_aggregations must not be empty", nil)
	}
	if c.Species.MinSpeciesSize <= 0 {
		return newErr(ErrConfigInvalid, "species.min_species_size must be positive", nil)
	}
	if c.Species.MaxStagnation <= 0 {
		return newErr(ErrConfigInvalid, "species.max_stagnation must be positive", nil)
	}
	return nil
}

// WriteYAML dumps the resolved Config as a YAML sidecar, grounded on
// pthm-soup's cfg.WriteYAML companion to its primary config format.
func (c *Config) WriteYAML(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("neat: marshaling config to yaml: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadConfigYAML loads a Config previously written by WriteYAML.
func LoadConfigYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("neat: reading config yaml: %w", err)
	}
	cfg := &Config{}
	if err := yamlv3.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("neat: unmarshaling config yaml: %w", err)
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
