package catalogfile

// File is the top-level structure of the catalog yaml
type File struct {
	// CurrentYear is the academic year the catalog describes. 0 means "derive from today".
	CurrentYear int           `yaml:"currentYear"`
	Courses     []CourseProps `yaml:"courses"`
}

// CourseProps is one course as written in the file
type CourseProps struct {
	Code       string      `yaml:"code"`
	Name       string      `yaml:"name"`
	Credit     float64     `yaml:"credit"`
	Year       int         `yaml:"year"`
	Terms      []TermProps `yaml:"terms"`
	Methods    []string    `yaml:"methods,omitempty"`
	Instructor string      `yaml:"instructor,omitempty"`
	Abstract   string      `yaml:"abstract,omitempty"`
	Note       string      `yaml:"note,omitempty"`
	Syllabus   string      `yaml:"syllabus,omitempty"`
}

// TermProps is one scheduling group.
// Slots are [day, period] pairs, zero based (day 0 = Monday).
type TermProps struct {
	Codes []int   `yaml:"codes"`
	Slots [][]int `yaml:"slots"`
}
