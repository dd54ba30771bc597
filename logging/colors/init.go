package colors

// init ensures that ANSI coloring is enabled on both Windows and Unix systems. ANSI coloring is
// enabled by default on Unix systems while Windows needs specific kernel calls for enablement.
func init() {
	EnableColor()
}
