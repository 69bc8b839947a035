package execx

// Fake is an in-memory Runner that records every call, for tests.
type Fake struct {
	ProcessCalls [][]string
	LayoutCalls  [][2]string
	OpenCalls    []string

	ProcessErr error
	LayoutErr  error
	OpenErr    error
}

func (f *Fake) Process(args []string) error {
	f.ProcessCalls = append(f.ProcessCalls, append([]string(nil), args...))
	return f.ProcessErr
}

func (f *Fake) Layout(dotPath, svgPath string) error {
	f.LayoutCalls = append(f.LayoutCalls, [2]string{dotPath, svgPath})
	return f.LayoutErr
}

func (f *Fake) Open(path string) error {
	f.OpenCalls = append(f.OpenCalls, path)
	return f.OpenErr
}

// Calls reports the total number of recorded invocations.
func (f *Fake) Calls() int {
	return len(f.ProcessCalls) + len(f.LayoutCalls) + len(f.OpenCalls)
}
