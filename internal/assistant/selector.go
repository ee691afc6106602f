// Package assistant answers visitor questions in the portfolio chat widget.
package assistant

import "strings"

// Rule maps any of its keywords, found as a substring of the lower-cased
// message, to a canned response.
type Rule struct {
	Keywords []string
	Response string
}

// Canned responses.
const (
	SkillsResponse = "Bhuvan works across the stack: React, TypeScript and Tailwind on the frontend, " +
		"Node.js, Express and Next.js on the backend, MySQL, MongoDB and PostgreSQL for data, " +
		"plus Git and Docker. Check the Skills section for the full breakdown."
	ExperienceResponse = "Bhuvan is a MERN Stack Intern at Zephyr Technologies & Solutions and has been " +
		"freelancing since 2023, building client projects end to end. See the Experience section for details."
	ProjectsResponse = "Highlights include SafeWalk (a women safety web app), TechFusion 2K25, Quiz Master " +
		"and an image denoising autoencoder. Every project in the Projects section links to its source."
	ContactResponse = "The best way to reach Bhuvan is the contact form at the bottom of the page, " +
		"or email bhuvanshetty2018@gmail.com. He usually replies within a day."
	EducationResponse = "Bhuvan is pursuing a Master of Computer Applications at Vivekananda College of " +
		"Engineering and Technology (2023-2025) after a BSc in Computer Science from St. Aloysius College."
	FallbackResponse = "I can tell you about Bhuvan's skills, experience, projects, education, " +
		"or how to contact him. What would you like to know?"
)

// DefaultRules is evaluated in order; the first match wins.
var DefaultRules = []Rule{
	{Keywords: []string{"skill", "technology"}, Response: SkillsResponse},
	{Keywords: []string{"experience", "work"}, Response: ExperienceResponse},
	{Keywords: []string{"project"}, Response: ProjectsResponse},
	{Keywords: []string{"contact", "hire"}, Response: ContactResponse},
	{Keywords: []string{"education", "study"}, Response: EducationResponse},
}

// Selector picks a canned response by keyword.
type Selector struct {
	rules    []Rule
	fallback string
}

// NewSelector returns a Selector over rules. Keywords are matched
// case-insensitively.
func NewSelector(rules []Rule, fallback string) *Selector {
	normalized := make([]Rule, len(rules))
	for i, r := range rules {
		kws := make([]string, len(r.Keywords))
		for j, kw := range r.Keywords {
			kws[j] = strings.ToLower(kw)
		}
		normalized[i] = Rule{Keywords: kws, Response: r.Response}
	}
	return &Selector{rules: normalized, fallback: fallback}
}

// DefaultSelector uses DefaultRules and FallbackResponse.
func DefaultSelector() *Selector {
	return NewSelector(DefaultRules, FallbackResponse)
}

// Select returns the response of the first rule whose keyword appears in
// message, or the fallback.
func (s *Selector) Select(message string) string {
	normalized := strings.ToLower(message)
	for _, r := range s.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(normalized, kw) {
				return r.Response
			}
		}
	}
	return s.fallback
}
