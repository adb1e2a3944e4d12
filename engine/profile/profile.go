// Package profile holds the static fixture registry: named sets of
// identifiers that select which entities a smoke test run targets. Profiles
// are constants for the process lifetime; an unknown name is a first-class
// failure handled by the caller, never an error.
package profile

// PtpuParams targets one prison-to-probation update test.
type PtpuParams struct {
	CRN        string
	NomsNumber string
}

// PsiParams targets one prisoner-search indexer test.
type PsiParams struct {
	NomsNumber string
}

// PoeParams targets one prison-offender-events test.
type PoeParams struct {
	NomsNumber string
}

// PsrParams targets one probation-search test.
type PsrParams struct {
	CRN       string
	FirstName string
	Surname   string
}

var ptpuProfiles = map[string]PtpuParams{
	"PTPU_T3": {CRN: "X360040", NomsNumber: "A7742DY"},
}

var psiProfiles = map[string]PsiParams{
	"PSI_T3": {NomsNumber: "A7742DY"},
}

var poeProfiles = map[string]PoeParams{
	"POE_T3": {NomsNumber: "A7742DY"},
}

var psrProfiles = map[string]PsrParams{
	"PSR_T3": {CRN: "X360040", FirstName: "PSR", Surname: "Smoketest"},
}

// Ptpu resolves a prison-to-probation update profile by name.
func Ptpu(name string) (PtpuParams, bool) {
	p, ok := ptpuProfiles[name]
	return p, ok
}

// Psi resolves a prisoner-search indexer profile by name.
func Psi(name string) (PsiParams, bool) {
	p, ok := psiProfiles[name]
	return p, ok
}

// Poe resolves a prison-offender-events profile by name.
func Poe(name string) (PoeParams, bool) {
	p, ok := poeProfiles[name]
	return p, ok
}

// Psr resolves a probation-search profile by name.
func Psr(name string) (PsrParams, bool) {
	p, ok := psrProfiles[name]
	return p, ok
}
