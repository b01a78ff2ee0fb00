package opt

// Sequence helpers shared by the construction heuristics and local search.
// All of them return fresh slices; inputs are never modified.

func insertAt(order []int, idx, pos int) []int {
	out := make([]int, 0, len(order)+1)
	out = append(out, order[:pos]...)
	out = append(out, idx)
	return append(out, order[pos:]...)
}

func removeAt(order []int, pos int) []int {
	out := make([]int, 0, len(order))
	out = append(out, order[:pos]...)
	return append(out, order[pos+1:]...)
}

func replaceAt(order []int, pos, idx int) []int {
	out := append([]int(nil), order...)
	out[pos] = idx
	return out
}

// twoOptSwap reverses ord[i..k].
func twoOptSwap(ord []int, i, k int) []int {
	out := make([]int, len(ord))
	copy(out, ord[:i])
	pos := i
	for j := k; j >= i; j-- {
		out[pos] = ord[j]
		pos++
	}
	copy(out[pos:], ord[k+1:])
	return out
}

func cloneRoutes(routes [][]int) [][]int {
	out := make([][]int, len(routes))
	for i, r := range routes {
		out[i] = append([]int(nil), r...)
	}
	return out
}
