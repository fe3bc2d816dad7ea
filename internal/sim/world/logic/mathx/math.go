package mathx

func AbsInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func SignInt(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func MinU64(a, b uint64) uint64 {
	if a <= b {
		return a
	}
	return b
}
