package ordering

type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up":
		return Up, true
	case "down":
		return Down, true
	}
	return Up, false
}

func IndexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

// Move swaps id with its neighbour in the given direction. The input is not modified.
// It reports false when id is unknown or already at that end of the list.
func Move(ids []string, id string, dir Direction) ([]string, bool) {
	i := IndexOf(ids, id)
	if i < 0 {
		return ids, false
	}
	j := i - 1
	if dir == Down {
		j = i + 1
	}
	if j < 0 || j >= len(ids) {
		return ids, false
	}
	out := append([]string(nil), ids...)
	out[i], out[j] = out[j], out[i]
	return out, true
}

// Drop places dragged next to target the way the admin list does on drop: when dragged sits
// above target it lands right after it, otherwise right before it.
func Drop(ids []string, dragged, target string) ([]string, bool) {
	from, to := IndexOf(ids, dragged), IndexOf(ids, target)
	if from < 0 || to < 0 || from == to {
		return ids, false
	}

	rest := make([]string, 0, len(ids)-1)
	for _, v := range ids {
		if v != dragged {
			rest = append(rest, v)
		}
	}
	at := IndexOf(rest, target)
	if from < to {
		at++
	}

	out := make([]string, 0, len(ids))
	out = append(out, rest[:at]...)
	out = append(out, dragged)
	out = append(out, rest[at:]...)
	return out, true
}
