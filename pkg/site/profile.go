package site

// Skill is one card of the skills section.
type Skill struct {
	Name  string `json:"name" yaml:"name" koanf:"name"`
	Icon  string `json:"icon" yaml:"icon" koanf:"icon"`
	Items string `json:"items" yaml:"items" koanf:"items"`
}

// Social is a link in the footer.
type Social struct {
	Label string `json:"label" yaml:"label" koanf:"label"`
	URL   string `json:"url" yaml:"url" koanf:"url"`
}

// Profile is the owner-specific content of the page.
type Profile struct {
	Name     string   `json:"name" yaml:"name" koanf:"name"`
	Role     string   `json:"role" yaml:"role" koanf:"role"`
	Tagline  string   `json:"tagline" yaml:"tagline" koanf:"tagline"`
	About    []string `json:"about" yaml:"about" koanf:"about"`
	Email    string   `json:"email" yaml:"email" koanf:"email"`
	Location string   `json:"location" yaml:"location" koanf:"location"`
	Skills   []Skill  `json:"skills" yaml:"skills" koanf:"skills"`
	Socials  []Social `json:"socials" yaml:"socials" koanf:"socials"`
}

// DefaultProfile returns placeholder content.
func DefaultProfile() Profile {
	return Profile{
		Name:    "Alex Morgan",
		Role:    "Full-Stack Developer",
		Tagline: "I build fast, accessible web applications from database to pixel.",
		About: []string{
			"I'm a developer with a passion for clean interfaces and reliable back ends.",
			"When I'm not shipping features I'm contributing to open source or mentoring new developers.",
		},
		Email:    "hello@example.com",
		Location: "Remote",
		Skills: []Skill{
			{Name: "Frontend", Icon: "🎨", Items: "HTML, CSS, JavaScript, React, Tailwind"},
			{Name: "Backend", Icon: "⚙️", Items: "Go, PHP, Laravel, Node.js"},
			{Name: "Data", Icon: "🗄️", Items: "PostgreSQL, SQLite, Redis, Firebase"},
			{Name: "Tooling", Icon: "🛠️", Items: "Git, Docker, CI/CD, AWS"},
		},
		Socials: []Social{
			{Label: "GitHub", URL: "https://github.com/"},
			{Label: "LinkedIn", URL: "https://www.linkedin.com/"},
		},
	}
}
