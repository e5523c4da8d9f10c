package game

// Player 玩家经济与基地血量
// cash/bank 经过系统校验的修改后始终 >= 0；hp 可暂时为负，<= 0 时对局结束
type Player struct {
	ID   string `json:"id"`
	Cash int    `json:"cash"`
	Bank int    `json:"bank"`
	HP   int    `json:"hp"`
}

// PlayerView 快照中的玩家视图，附带本 Tick 生效的羁绊
type PlayerView struct {
	Player
	Synergies []string `json:"synergies"`
}
