// Package workflow holds the single active resume/job/match triple of a session
// and derives what the user should do next.
package workflow

// Step is the position of a session in the upload, describe, analyze sequence.
type Step int

const (
	// StepEmpty means no resume has been uploaded.
	StepEmpty Step = iota
	// StepResumeOnly means a resume is held but no job description.
	StepResumeOnly
	// StepResumeAndJob means both inputs are held and no match has been computed.
	StepResumeAndJob
	// StepMatched means a match result is held.
	StepMatched
)

// Derive maps the presence of the three records to a step. It is total: a held
// job without a resume still asks for a resume first.
func Derive(hasResume, hasJob, hasMatch bool) Step {
	switch {
	case !hasResume:
		return StepEmpty
	case !hasJob:
		return StepResumeOnly
	case !hasMatch:
		return StepResumeAndJob
	default:
		return StepMatched
	}
}

// Action is the label of the next thing to do.
func (s Step) Action() string {
	switch s {
	case StepEmpty:
		return "Upload Resume"
	case StepResumeOnly:
		return "Add Job Description"
	case StepResumeAndJob:
		return "Analyze Match"
	case StepMatched:
		return "View Results"
	default:
		return ""
	}
}

// Description explains the action in one sentence.
func (s Step) Description() string {
	switch s {
	case StepEmpty:
		return "Start by uploading your resume to analyze your skills and qualifications."
	case StepResumeOnly:
		return "Add a job description to analyze requirements and match with your resume."
	case StepResumeAndJob:
		return "Run the matching analysis to see how well your resume fits the job."
	case StepMatched:
		return "Check your matching results and get improvement suggestions."
	default:
		return ""
	}
}

func (s Step) String() string {
	switch s {
	case StepEmpty:
		return "empty"
	case StepResumeOnly:
		return "resume_only"
	case StepResumeAndJob:
		return "resume_and_job"
	case StepMatched:
		return "matched"
	default:
		return "unknown"
	}
}
