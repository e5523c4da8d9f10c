package game

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// UnitArchetype 可购买单位的数值与价格
type UnitArchetype struct {
	Cost          int      `yaml:"cost"`
	HP            float64  `yaml:"hp"`
	Attack        float64  `yaml:"attack"`
	AttackRange   float64  `yaml:"attack_range"`
	Width         int      `yaml:"width"`
	Height        int      `yaml:"height"`
	Tags          []string `yaml:"tags"`
	UpgradeCost   int      `yaml:"upgrade_cost"`
	UpgradeAttack float64  `yaml:"upgrade_attack"`
	MaxLevel      int      `yaml:"max_level"` // 0 = 不限升级次数
}

// EnemyArchetype 刷新的敌人数值
type EnemyArchetype struct {
	Type        string   `yaml:"type"`
	HP          float64  `yaml:"hp"`
	Attack      float64  `yaml:"attack"`
	AttackRange float64  `yaml:"attack_range"`
	Speed       float64  `yaml:"speed"` // 格/秒
	Bounty      int      `yaml:"bounty"`
	Width       int      `yaml:"width"`
	Height      int      `yaml:"height"`
	Tags        []string `yaml:"tags"`
}

// LaneConfig 丝绸之路：敌人入口列、可选行与基地位置
type LaneConfig struct {
	EntryX float64 `yaml:"entry_x"`
	Rows   []int   `yaml:"rows"`
	BaseX  float64 `yaml:"base_x"`
}

type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type EconomyConfig struct {
	StartingCash int     `yaml:"starting_cash"`
	StartingBank int     `yaml:"starting_bank"`
	StartingHP   int     `yaml:"starting_hp"`
	InterestRate float64 `yaml:"interest_rate"`
	BaseDamage   int     `yaml:"base_damage"` // 敌人抵达基地时每位玩家扣除的血量
}

type PhaseConfig struct {
	PlanningMs int `yaml:"planning_ms"`
}

type SpawnConfig struct {
	IntervalMs int `yaml:"interval_ms"`
	WaveSize   int `yaml:"wave_size"` // 0 = 无限刷新
	WaveGrowth int `yaml:"wave_growth"`
}

// SynergyRule 同标签单位数量达到阈值时生效的羁绊
type SynergyRule struct {
	Name             string  `yaml:"name"`
	Tag              string  `yaml:"tag"`
	Threshold        int     `yaml:"threshold"`
	AttackMultiplier float64 `yaml:"attack_multiplier"`
}

// Balance 全部数值表；商店、升级、战斗系统只查表，不写死数值
type Balance struct {
	DefaultUnit string                   `yaml:"default_unit"`
	Units       map[string]UnitArchetype `yaml:"units"`
	Enemy       EnemyArchetype           `yaml:"enemy"`
	Lane        LaneConfig               `yaml:"lane"`
	Grid        GridConfig               `yaml:"grid"`
	Economy     EconomyConfig            `yaml:"economy"`
	Phase       PhaseConfig              `yaml:"phase"`
	Spawn       SpawnConfig              `yaml:"spawn"`
	Synergies   []SynergyRule            `yaml:"synergies"`
}

// DefaultBalance 内置数值表，与原型保持一致
func DefaultBalance() *Balance {
	return &Balance{
		DefaultUnit: "human_warrior",
		Units: map[string]UnitArchetype{
			"human_warrior": {
				Cost:          10,
				HP:            100,
				Attack:        10,
				AttackRange:   1,
				Width:         64,
				Height:        64,
				Tags:          []string{"human"},
				UpgradeCost:   5,
				UpgradeAttack: 2,
			},
		},
		Enemy: EnemyArchetype{
			Type:        "basic_mob",
			HP:          30,
			Attack:      5,
			AttackRange: 0.5,
			Speed:       2.0,
			Bounty:      1,
			Width:       64,
			Height:      64,
			Tags:        []string{"mob"},
		},
		Lane:    LaneConfig{EntryX: 39, Rows: []int{9, 10}, BaseX: 0},
		Grid:    GridConfig{Width: 40, Height: 20},
		Economy: EconomyConfig{StartingCash: 100, StartingHP: 20, InterestRate: 0.15, BaseDamage: 1},
		Phase:   PhaseConfig{PlanningMs: 30000},
		Spawn:   SpawnConfig{IntervalMs: 2000, WaveSize: 10, WaveGrowth: 5},
		Synergies: []SynergyRule{
			{Name: "HUMAN_WAVE", Tag: "human", Threshold: 5, AttackMultiplier: 1.2},
		},
	}
}

// LoadBalance 以内置表为底，用 YAML 文件覆盖；path 为空时返回内置表
func LoadBalance(path string) (*Balance, error) {
	b := DefaultBalance()
	if path == "" {
		return b, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read balance %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, b); err != nil {
		return nil, fmt.Errorf("parse balance %s: %w", path, err)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("balance %s: %w", path, err)
	}
	return b, nil
}

// Validate 检查数值表的基本一致性
func (b *Balance) Validate() error {
	if _, ok := b.Units[b.DefaultUnit]; !ok {
		return fmt.Errorf("default unit %q not in units", b.DefaultUnit)
	}
	for name, u := range b.Units {
		if u.Cost <= 0 || u.UpgradeCost <= 0 {
			return fmt.Errorf("unit %q: cost and upgrade_cost must be positive", name)
		}
		if u.HP <= 0 {
			return fmt.Errorf("unit %q: hp must be positive", name)
		}
	}
	if b.Enemy.HP <= 0 || b.Enemy.Speed < 0 {
		return fmt.Errorf("enemy %q: invalid hp or speed", b.Enemy.Type)
	}
	if len(b.Lane.Rows) == 0 {
		return fmt.Errorf("lane has no rows")
	}
	if b.Grid.Width <= 0 || b.Grid.Height <= 0 {
		return fmt.Errorf("grid must be non-empty")
	}
	if b.Economy.InterestRate < 0 {
		return fmt.Errorf("interest_rate must not be negative")
	}
	if b.Phase.PlanningMs < 0 || b.Spawn.IntervalMs <= 0 {
		return fmt.Errorf("invalid phase or spawn timing")
	}
	for _, s := range b.Synergies {
		if s.Threshold <= 0 {
			return fmt.Errorf("synergy %q: threshold must be positive", s.Name)
		}
	}
	return nil
}

// Unit 按类型查找单位原型
func (b *Balance) Unit(unitType string) (UnitArchetype, bool) {
	u, ok := b.Units[unitType]
	return u, ok
}

// Clone 深拷贝，保证每个对局可以独立热更新数值
func (b *Balance) Clone() *Balance {
	c := *b
	c.Units = maps.Clone(b.Units)
	for k, u := range c.Units {
		u.Tags = slices.Clone(u.Tags)
		c.Units[k] = u
	}
	c.Enemy.Tags = slices.Clone(b.Enemy.Tags)
	c.Lane.Rows = slices.Clone(b.Lane.Rows)
	c.Synergies = slices.Clone(b.Synergies)
	return &c
}

func (b *Balance) PlanningDuration() time.Duration {
	return time.Duration(b.Phase.PlanningMs) * time.Millisecond
}

func (b *Balance) SpawnInterval() time.Duration {
	return time.Duration(b.Spawn.IntervalMs) * time.Millisecond
}

// WaveQuota 第 wave 波（从 1 开始）需要刷新的敌人数量，0 表示不限
func (b *Balance) WaveQuota(wave int) int {
	if b.Spawn.WaveSize <= 0 {
		return 0
	}
	return b.Spawn.WaveSize + (wave-1)*b.Spawn.WaveGrowth
}
