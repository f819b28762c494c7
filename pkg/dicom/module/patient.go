package module

// Patient represents the patient the imaging belongs to
type Patient struct {
	Name      PersonName
	ID        string
	BirthDate Date
	Sex       string // M, F, O
	Comments  string
}

// SetName sets the patient's name components
func (p *Patient) SetName(family, given, middle, prefix, suffix string) {
	p.Name = PersonName{
		FamilyName: family,
		GivenName:  given,
		MiddleName: middle,
		Prefix:     prefix,
		Suffix:     suffix,
	}
}
