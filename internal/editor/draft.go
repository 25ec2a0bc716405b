package editor

// Draft holds an in-progress entry for an "add" dialog. It is owned by the
// caller, never stored on the profile, and cleared when the entry commits.
type Draft[T any] struct {
	Value T
}

// NewDraft returns an empty draft.
func NewDraft[T any]() *Draft[T] {
	return &Draft[T]{}
}

// Set replaces the draft value.
func (d *Draft[T]) Set(v T) {
	d.Value = v
}

// Clear resets the draft to its zero value. Used on commit and on cancel.
func (d *Draft[T]) Clear() {
	var zero T
	d.Value = zero
}
