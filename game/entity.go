package game

import "slices"

// EnemyOwner 敌方单位的 OwnerID 哨兵值
const EnemyOwner = "enemy"

// Entity 战场上的单位或建筑，纯数据，行为由各系统驱动
// 坐标为网格坐标（非像素），允许小数以支持连续移动
type Entity struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	HP          float64  `json:"hp"`
	MaxHP       float64  `json:"maxHp"`
	Attack      float64  `json:"attack"` // 每秒伤害
	AttackRange float64  `json:"attackRange"`
	Width       int      `json:"width"` // 仅供渲染
	Height      int      `json:"height"`
	OwnerID     string   `json:"ownerId"`
	Tags        []string `json:"tags"`
	Level       int      `json:"level"`

	seq uint64 // 入场顺序，用于稳定的扫描顺序
}

// IsEnemy 是否为敌方单位
func (e *Entity) IsEnemy() bool { return e.OwnerID == EnemyOwner }

// Alive hp 归零即视为无效目标
func (e *Entity) Alive() bool { return e.HP > 0 }

// HasTag 是否携带指定能力标签
func (e *Entity) HasTag(tag string) bool { return slices.Contains(e.Tags, tag) }

// clone 返回用于快照的副本
func (e *Entity) clone() Entity {
	c := *e
	c.Tags = slices.Clone(e.Tags)
	return c
}
