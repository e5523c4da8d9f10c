package server

// sessions 连接 → 玩家身份；同一玩家可以有多个连接（例如多开的标签页）
// 只在 Tick 线程中读写
type sessions map[*ClientConn]string

// count 玩家当前的连接数
func (s sessions) count(playerID string) int {
	n := 0
	for _, pid := range s {
		if pid == playerID {
			n++
		}
	}
	return n
}

// conns 当前全部连接，用于广播
func (s sessions) conns() []*ClientConn {
	out := make([]*ClientConn, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	return out
}

// players 有连接的玩家（去重）
func (s sessions) players() []string {
	seen := make(map[string]bool, len(s))
	var out []string
	for _, pid := range s {
		if !seen[pid] {
			seen[pid] = true
			out = append(out, pid)
		}
	}
	return out
}
