package cv

// PersonalInfo is the identity and contact block. Photo holds a data URI or
// is empty.
type PersonalInfo struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Location string `json:"location"`
	Website  string `json:"website"`
	Summary  string `json:"summary"`
	Photo    string `json:"photo"`
}

type Experience struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Role        string `json:"role"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

type Education struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Link        string `json:"link"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

type Skill struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Language struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

type Interest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Data is the aggregate root of one CV. List order is display order.
type Data struct {
	Personal   PersonalInfo `json:"personalInfo"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	Projects   []Project    `json:"projects"`
	Skills     []Skill      `json:"skills"`
	Languages  []Language   `json:"languages"`
	Interests  []Interest   `json:"interests"`
}

// Clone returns a deep copy of d.
func (d Data) Clone() Data {
	out := d
	out.Experience = cloneSlice(d.Experience)
	out.Education = cloneSlice(d.Education)
	out.Projects = cloneSlice(d.Projects)
	out.Skills = cloneSlice(d.Skills)
	out.Languages = cloneSlice(d.Languages)
	out.Interests = cloneSlice(d.Interests)
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	return append(make([]T, 0, len(in)), in...)
}
