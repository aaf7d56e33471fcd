package importing

// Observer receives the pipeline's diagnostic trace. Implementations must
// not influence the import outcome; the pipeline ignores them beyond the
// callbacks.
type Observer interface {
	HeaderRowDetected(index int, headers []string)
	ColumnsMapped(mapping ColumnMapping)
	RowResolved(index int, record ResolvedClient)
	RowSkipped(index int)
}

// NopObserver discards the trace
type NopObserver struct{}

func (NopObserver) HeaderRowDetected(int, []string) {}
func (NopObserver) ColumnsMapped(ColumnMapping)     {}
func (NopObserver) RowResolved(int, ResolvedClient) {}
func (NopObserver) RowSkipped(int)                  {}
