package matcher

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var jobValidator = validator.New()

// JobInput is a job description as entered by the user.
type JobInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type Jobs struct {
	Items []*Job
}

type Job struct {
	ID                     string    `json:"id"`
	Title                  string    `json:"title"`
	Description            string    `json:"description"`
	RequiredSkills         []string  `json:"required_skills"`
	RequiredExperience     []string  `json:"required_experience"`
	RequiredQualifications []string  `json:"required_qualifications"`
	ExtractedKeywords      []string  `json:"extracted_keywords"`
	CreatedAt              time.Time `json:"created_at,omitempty"`
}

type analyzeResponse struct {
	JobID                  string   `json:"job_id"`
	RequiredSkills         []string `json:"required_skills"`
	RequiredExperience     []string `json:"required_experience"`
	RequiredQualifications []string `json:"required_qualifications"`
	ExtractedKeywords      []string `json:"extracted_keywords"`
}

// SampleJobs are ready-made job descriptions for trying the workflow.
var SampleJobs = []JobInput{
	{
		Title:       "Frontend Developer",
		Description: "We are seeking a skilled Frontend Developer to join our team. You will be responsible for developing user-facing features using React, implementing responsive designs, and ensuring cross-browser compatibility. Requirements include 3+ years of experience with JavaScript, React, HTML5, CSS3, and modern build tools. Bachelor's degree in Computer Science or equivalent experience preferred.",
	},
	{
		Title:       "Data Scientist",
		Description: "Looking for a Data Scientist to analyze complex datasets and build predictive models. Responsibilities include developing machine learning algorithms, creating data visualizations, and presenting insights to stakeholders. Required qualifications: PhD in Statistics, Mathematics, or related field, 5+ years of experience with Python, R, SQL, and machine learning frameworks like TensorFlow or PyTorch.",
	},
	{
		Title:       "Product Manager",
		Description: "We need a Product Manager to lead product development initiatives. You'll work with cross-functional teams to define product requirements, manage roadmaps, and ensure successful product launches. Requirements: MBA or equivalent, 7+ years of product management experience, strong analytical skills, experience with Agile methodologies, and excellent communication skills.",
	},
}

// Validate checks that both fields are present. Whitespace-only values count as empty.
func (in JobInput) Validate() error {
	trimmed := JobInput{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
	}

	err := jobValidator.Struct(trimmed)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &ValidationError{
			Field:   strings.ToLower(fieldErrs[0].Field()),
			Message: "Please fill in both job title and description",
		}
	}

	return &ValidationError{Message: err.Error()}
}

// AnalyzeJob submits a job description for extraction. Input is validated before
// any request is made.
func (c *Client) AnalyzeJob(ctx context.Context, in JobInput) (*Job, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var resp analyzeResponse
	if err := c.postJSON(ctx, "analyze job", "failed to analyze job description", analyzeJobPath, in, &resp); err != nil {
		return nil, err
	}

	job := &Job{
		ID:                     resp.JobID,
		Title:                  in.Title,
		Description:            in.Description,
		RequiredSkills:         resp.RequiredSkills,
		RequiredExperience:     resp.RequiredExperience,
		RequiredQualifications: resp.RequiredQualifications,
		ExtractedKeywords:      resp.ExtractedKeywords,
	}
	job.normalize()

	return job, nil
}

// ListJobs returns every job description the service has stored.
func (c *Client) ListJobs(ctx context.Context) (*Jobs, error) {
	var resp struct {
		Jobs []*Job `json:"jobs"`
	}
	if err := c.getJSON(ctx, "list jobs", "failed to fetch jobs", jobsPath, &resp); err != nil {
		return nil, err
	}

	for _, j := range resp.Jobs {
		j.normalize()
	}

	return &Jobs{Items: resp.Jobs}, nil
}

func (j *Job) normalize() {
	j.RequiredSkills = nonNil(j.RequiredSkills)
	j.RequiredExperience = nonNil(j.RequiredExperience)
	j.RequiredQualifications = nonNil(j.RequiredQualifications)
	j.ExtractedKeywords = nonNil(j.ExtractedKeywords)
}

func (j *Jobs) Len() int {
	if j == nil {
		return 0
	}
	return len(j.Items)
}

func (j *Jobs) FindByID(id string) *Job {
	for _, job := range j.Items {
		if job.ID == id {
			return job
		}
	}

	return nil
}
