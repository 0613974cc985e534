package linop

func mod(a, b int) int {
	if b <= 0 {
		panic("non-positive mod")
	}
	return ((a % b) + b) % b
}
