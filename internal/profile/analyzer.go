package profile

import "strings"

// Field weighting: the three required fields carry 70% of the score, the
// five optional ones the remaining 30%.
const (
	requiredWeight = 70
	optionalWeight = 30
)

// Analysis is the result of a completeness check over one profile.
type Analysis struct {
	HasRealName     bool
	HasDisplayName  bool
	HasProfileImage bool
	HasJobTitle     bool
	HasDepartment   bool
	HasPhone        bool
	HasManagerInfo  bool
	HasStartDate    bool

	CompletionScore int // 0-100
	MissingFields   []string
	IsComplete      bool
}

// Analyzer scores profiles against the required/optional field sets.
// Threshold is the minimum score for completeness (complete additionally
// requires every required field to be present).
type Analyzer struct {
	Threshold int
}

func NewAnalyzer(threshold int) *Analyzer {
	if threshold <= 0 {
		threshold = 80
	}
	return &Analyzer{Threshold: threshold}
}

func (a *Analyzer) Analyze(p *Profile) Analysis {
	an := Analysis{
		HasRealName:     present(p.RealName),
		HasDisplayName:  present(p.DisplayName),
		HasProfileImage: !p.IsBot && present(p.ImageURL),
		HasJobTitle:     present(p.JobTitle),
		HasDepartment:   present(p.Department),
		HasPhone:        present(p.Phone),
		HasManagerInfo:  present(p.ManagerRef),
		HasStartDate:    p.StartDate != nil,
	}

	required := []bool{an.HasRealName, an.HasJobTitle, an.HasProfileImage}
	optional := []bool{an.HasDisplayName, an.HasDepartment, an.HasPhone, an.HasManagerInfo, an.HasStartDate}

	an.CompletionScore = count(required)*requiredWeight/len(required) +
		count(optional)*optionalWeight/len(optional)

	if !an.HasRealName {
		an.MissingFields = append(an.MissingFields, "Real Name")
	}
	if !an.HasJobTitle {
		an.MissingFields = append(an.MissingFields, "Job Title")
	}
	if !an.HasProfileImage {
		an.MissingFields = append(an.MissingFields, "Profile Picture")
	}
	if !an.HasDepartment {
		an.MissingFields = append(an.MissingFields, "Department")
	}
	if !an.HasManagerInfo {
		an.MissingFields = append(an.MissingFields, "Manager Information")
	}

	requiredMissing := !an.HasRealName || !an.HasJobTitle || !an.HasProfileImage
	an.IsComplete = an.CompletionScore >= a.Threshold && !requiredMissing

	return an
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}

func count(flags []bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
