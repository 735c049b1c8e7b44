package page

import (
	"errors"
	"fmt"
	"strings"
)

// Project is one entry of the project catalog.
type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Year        string `json:"year"`
	Team        string `json:"team"`
}

// ErrUnknownProject is returned for an index outside the catalog.
var ErrUnknownProject = errors.New("page: unknown project")

// catalog is indexed by the position of the project link on the page.
var catalog = [3]Project{
	{
		Name:        "E-Commerce Platform",
		Description: "A full-stack e-commerce solution built with React and Laravel. Features include product management, shopping cart, order tracking, and secure payment integration with Stripe.",
		Year:        "2024",
		Team:        "Team of 3 developers",
	},
	{
		Name:        "Task Management App",
		Description: "Responsive web application for managing tasks and projects. Features include drag-and-drop functionality, real-time updates using Firebase, user authentication, and project collaboration tools.",
		Year:        "2024",
		Team:        "Solo project",
	},
	{
		Name:        "Creative Portfolio",
		Description: "Modern portfolio website for a creative designer featuring smooth animations, interactive image galleries, contact form with email integration, and responsive design.",
		Year:        "2023",
		Team:        "Client project",
	},
}

// Projects returns a copy of the catalog.
func Projects() []Project {
	out := make([]Project, len(catalog))
	copy(out, catalog[:])
	return out
}

// ProjectCount is the number of catalog entries.
const ProjectCount = len(catalog)

// LookupProject returns the project shown by the link at index.
func LookupProject(index int) (Project, error) {
	if index < 0 || index >= len(catalog) {
		return Project{}, fmt.Errorf("%w: index %d", ErrUnknownProject, index)
	}
	return catalog[index], nil
}

// AlertText formats the detail dialog for p.
func (p Project) AlertText() string {
	var b strings.Builder
	b.WriteString("📌 " + p.Name + "\n\n")
	b.WriteString("📝 " + p.Description + "\n\n")
	b.WriteString("📅 Year: " + p.Year + "\n")
	b.WriteString("👥 " + p.Team + "\n\n")
	b.WriteString("(In a real application, this would navigate to a detailed project page)")
	return b.String()
}
