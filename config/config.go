// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Population PopulationConfig `yaml:"population"`
	Bean       BeanConfig       `yaml:"bean"`
	Satiety    SatietyConfig    `yaml:"satiety"`
	Movement   MovementConfig   `yaml:"movement"`
	Vision     VisionConfig     `yaml:"vision"`
	Attributes AttributeConfig  `yaml:"attributes"`
	Mating     MatingConfig     `yaml:"mating"`
	Hoard      HoardConfig      `yaml:"hoard"`
	Combat     CombatConfig     `yaml:"combat"`
	Tail       TailConfig       `yaml:"tail"`
	Cocoon     CocoonConfig     `yaml:"cocoon"`
	Food       FoodConfig       `yaml:"food"`
	TownCenter TownCenterConfig `yaml:"town_center"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Observer   ObserverConfig   `yaml:"observer"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the bounded world dimensions.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PhysicsConfig holds the fixed step and arcade integrator parameters.
type PhysicsConfig struct {
	DTMs          float64 `yaml:"dt_ms"`          // Milliseconds per sub-step
	GridCellSize  float64 `yaml:"grid_cell_size"` // Spatial grid cell edge
	Drag          float64 `yaml:"drag"`           // Linear deceleration, px/s^2
	Bounce        float64 `yaml:"bounce"`         // Restitution against bounds and bodies
	MaxStepsFrame int     `yaml:"max_steps_per_frame"`
}

// PopulationConfig holds founding population settings.
type PopulationConfig struct {
	Initial int `yaml:"initial"`
}

// BeanConfig holds body size and life stage parameters.
type BeanConfig struct {
	ChildRadius      float64 `yaml:"child_radius"`
	AdultRadius      float64 `yaml:"adult_radius"`
	MaturityAgeMs    float64 `yaml:"maturity_age_ms"`
	GrowthDurationMs float64 `yaml:"growth_duration_ms"`
}

// SatietyConfig holds hunger parameters. Decay rates are per second.
type SatietyConfig struct {
	Start        float64 `yaml:"start"`
	MaxBase      float64 `yaml:"max_base"`
	MaxConMult   float64 `yaml:"max_con_mult"` // maxSatiety = MaxBase + constitution*MaxConMult
	DecayMoving  float64 `yaml:"decay_moving"`
	DecayIdle    float64 `yaml:"decay_idle"`
	MovingSpeed  float64 `yaml:"moving_speed"` // Speed above which the moving rate applies
	FullRatio    float64 `yaml:"full_ratio"`   // Full flag clears under max*FullRatio
	Desperate    float64 `yaml:"desperate"`    // Satiety under which food search widens
	Desperation  float64 `yaml:"desperation"`  // Search radius multiplier when desperate
	HungerRadius float64 `yaml:"hunger_radius"`
}

// MovementConfig holds burst/decelerate and steering parameters.
type MovementConfig struct {
	BaseSpeed        float64 `yaml:"base_speed"`
	SpeedCoeff       float64 `yaml:"speed_coeff"`
	ChargeMs         float64 `yaml:"charge_ms"`
	IdleMinMs        float64 `yaml:"idle_min_ms"`
	IdleMaxMs        float64 `yaml:"idle_max_ms"`
	HopContinueSpeed float64 `yaml:"hop_continue_speed"`
	StopSpeed        float64 `yaml:"stop_speed"`
	FarDistance      float64 `yaml:"far_distance"`
	TargetReached    float64 `yaml:"target_reached"`
	TargetPadding    float64 `yaml:"target_padding"`
	StuckSpeed       float64 `yaml:"stuck_speed"`
	StuckMs          float64 `yaml:"stuck_ms"`
	StuckGraceMs     float64 `yaml:"stuck_grace_ms"`
	SeparationRadius float64 `yaml:"separation_radius"`
	SeparationWeight float64 `yaml:"separation_weight"`
	MateSeparation   float64 `yaml:"mate_separation_weight"`
}

// VisionConfig holds perception radii.
type VisionConfig struct {
	Radius       float64 `yaml:"radius"`
	GuardRadius  float64 `yaml:"guard_radius"`
	MaxChaseDist float64 `yaml:"max_chase_dist"`
}

// AttributeConfig bounds strength, speed and constitution.
type AttributeConfig struct {
	Min      float64 `yaml:"min"`
	Max      float64 `yaml:"max"`
	Mutation float64 `yaml:"mutation"`
}

// MatingConfig holds reproduction trigger parameters.
type MatingConfig struct {
	K                float64 `yaml:"k"` // probability = surplus^2 * K * dt/1000
	CooldownJitterMs float64 `yaml:"cooldown_jitter_ms"`
}

// HoardConfig holds territory sizing and deposit distances.
type HoardConfig struct {
	RadiusMultiplier float64 `yaml:"radius_multiplier"`
	DepositDistance  float64 `yaml:"deposit_distance"`
	BuildDistance    float64 `yaml:"build_distance"`
	DropDistance     float64 `yaml:"drop_distance"`
}

// CombatConfig holds collision combat and fleeing parameters.
type CombatConfig struct {
	BaseDamage    float64 `yaml:"base_damage"`
	CooldownMs    float64 `yaml:"cooldown_ms"`
	FleeMs        float64 `yaml:"flee_ms"`
	FleeDistance  float64 `yaml:"flee_distance"`
	FleeBaseSpeed float64 `yaml:"flee_base_speed"`
}

// TailConfig holds the secondary motion spring.
type TailConfig struct {
	Stiffness       float64 `yaml:"stiffness"`
	Damping         float64 `yaml:"damping"`
	RopeLength      float64 `yaml:"rope_length"`
	ReferenceTickMs float64 `yaml:"reference_tick_ms"`
}

// CocoonConfig holds gestation parameters.
type CocoonConfig struct {
	ChargeMs     float64 `yaml:"charge_ms"`
	GrowthMs     float64 `yaml:"growth_ms"`
	HatchDelayMs float64 `yaml:"hatch_delay_ms"`
	Radius       float64 `yaml:"radius"`
	MinOffspring int     `yaml:"min_offspring"`
	MaxOffspring int     `yaml:"max_offspring"`
	SpawnOffset  float64 `yaml:"spawn_offset"`
}

// FoodConfig holds the food field and its fertility noise.
type FoodConfig struct {
	SpawnIntervalMs  float64   `yaml:"spawn_interval_ms"`
	MaxFood          int       `yaml:"max_food"`
	Radius           float64   `yaml:"radius"`
	SatietyValues    []float64 `yaml:"satiety_values"`
	BonusChance      float64   `yaml:"bonus_chance"`
	BonusValue       float64   `yaml:"bonus_value"`
	SpawnAttempts    int       `yaml:"spawn_attempts"`
	NoiseFrequency   float64   `yaml:"noise_frequency"`
	NoiseOctaves     int       `yaml:"noise_octaves"`
	NoisePersistence float64   `yaml:"noise_persistence"`
	InitialFood      int       `yaml:"initial_food"`
}

// TownCenterConfig holds construction trigger parameters.
type TownCenterConfig struct {
	TriggerDeposits int     `yaml:"trigger_deposits"`
	Cost            float64 `yaml:"cost"`
}

// TelemetryConfig holds stats window and output settings.
type TelemetryConfig struct {
	WindowSec     float64 `yaml:"window_sec"`
	EventLog      bool    `yaml:"event_log"`
	ProfileWindow int     `yaml:"profile_window"`
}

// ObserverConfig holds the websocket frame stream settings.
type ObserverConfig struct {
	Addr       string `yaml:"addr"` // Empty disables the observer
	EveryTicks int    `yaml:"every_ticks"`
	SendBuffer int    `yaml:"send_buffer"`
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	DT          float32 // Physics.DTMs as float32 (ms)
	DTSec       float32 // Seconds per sub-step
	WorldW32    float32
	WorldH32    float32
	ScreenW32   float32
	ScreenH32   float32
	GestationMs float32 // Cocoon charge + growth + hatch delay
	WindowTicks int32   // Telemetry window length in sub-steps
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only fields present in the file are overwritten
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects settings the simulation cannot run with.
func (c *Config) validate() error {
	switch {
	case c.Physics.DTMs <= 0:
		return fmt.Errorf("physics.dt_ms must be positive, got %v", c.Physics.DTMs)
	case c.Physics.GridCellSize <= 0:
		return fmt.Errorf("physics.grid_cell_size must be positive, got %v", c.Physics.GridCellSize)
	case c.World.Width <= 0 || c.World.Height <= 0:
		return fmt.Errorf("world size must be positive, got %vx%v", c.World.Width, c.World.Height)
	case c.Attributes.Min > c.Attributes.Max:
		return fmt.Errorf("attributes.min %v exceeds attributes.max %v", c.Attributes.Min, c.Attributes.Max)
	case c.Cocoon.MinOffspring < 1 || c.Cocoon.MaxOffspring < c.Cocoon.MinOffspring:
		return fmt.Errorf("cocoon offspring range [%d,%d] is invalid", c.Cocoon.MinOffspring, c.Cocoon.MaxOffspring)
	case len(c.Food.SatietyValues) == 0:
		return fmt.Errorf("food.satiety_values must not be empty")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT = float32(c.Physics.DTMs)
	c.Derived.DTSec = float32(c.Physics.DTMs / 1000)
	c.Derived.WorldW32 = float32(c.World.Width)
	c.Derived.WorldH32 = float32(c.World.Height)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.GestationMs = float32(c.Cocoon.ChargeMs + c.Cocoon.GrowthMs + c.Cocoon.HatchDelayMs)
	c.Derived.WindowTicks = int32(c.Telemetry.WindowSec * 1000 / c.Physics.DTMs)
	if c.Derived.WindowTicks < 1 {
		c.Derived.WindowTicks = 1
	}
}

// MaxSatiety returns the satiety cap for the given constitution.
func (c *Config) MaxSatiety(constitution float32) float32 {
	return float32(c.Satiety.MaxBase) + constitution*float32(c.Satiety.MaxConMult)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
