package domain

// Cycle is a coarse academic-level bucket derived from diploma metadata.
type Cycle string

// Available cycles.
const (
	CycleUndergraduate Cycle = "undergraduate"
	CycleGraduate      Cycle = "graduate"
	CycleDoctoral      Cycle = "doctoral"
	CycleOther         Cycle = "other"
)

// String returns the string representation.
func (c Cycle) String() string {
	return string(c)
}
