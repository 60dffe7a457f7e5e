package source

// RawRow is the sealed set of per platform row shapes
// values stay exactly as read from the export, parsing happens in the normalizers
type RawRow interface {
	App() App
	rawRow()
}

// AsanaRow is one task from an Asana project export
type AsanaRow struct {
	Line          int
	TaskID        string
	Name          string
	Section       string
	Team          string
	Assignee      string
	CreatedAt     string
	CompletedAt   string
	Tags          string
	DurationHours string
}

// JiraRow is one issue from a Jira search export
type JiraRow struct {
	Line      int
	IssueKey  string
	Summary   string
	IssueType string
	Labels    string
	Assignee  string
	Status    string
	Created   string
	Resolved  string
	TimeSpent string // seconds
}

// ZapierRow is one task execution from the Zapier task history
type ZapierRow struct {
	Line            int
	TaskID          string
	ZapID           string
	ZapName         string
	Owner           string
	Status          string
	AppName         string
	Category        string
	Date            string
	DurationMinutes string
}

// HubSpotRow is one deal from a HubSpot deals export
type HubSpotRow struct {
	Line           int
	DealID         string
	DealName       string
	DealStage      string
	DealOwner      string
	OriginalSource string
	Pipeline       string
	CreateDate     string
	CloseDate      string
	DurationHours  string
}

// M365Row is one activity from a Microsoft 365 usage report
type M365Row struct {
	Line            int
	ActivityID      string
	ActivityType    string
	User            string
	Application     string
	ActivityDate    string
	DurationMinutes string
}

func (AsanaRow) App() App   { return Asana }
func (JiraRow) App() App    { return Jira }
func (ZapierRow) App() App  { return Zapier }
func (HubSpotRow) App() App { return HubSpot }
func (M365Row) App() App    { return Microsoft365 }

func (AsanaRow) rawRow()   {}
func (JiraRow) rawRow()    {}
func (ZapierRow) rawRow()  {}
func (HubSpotRow) rawRow() {}
func (M365Row) rawRow()    {}

// Batch carries every raw row retrieved for one project
// a nil slice means the source contributed nothing
type Batch struct {
	Asana   []AsanaRow
	Jira    []JiraRow
	Zapier  []ZapierRow
	HubSpot []HubSpotRow
	M365    []M365Row
}

// Len returns the number of raw rows for a
func (b Batch) Len(a App) int {
	switch a {
	case Asana:
		return len(b.Asana)
	case Jira:
		return len(b.Jira)
	case Zapier:
		return len(b.Zapier)
	case HubSpot:
		return len(b.HubSpot)
	case Microsoft365:
		return len(b.M365)
	}
	return 0
}

// Add appends rows of any variant to the matching slice
func (b *Batch) Add(rows ...RawRow) {
	for _, r := range rows {
		switch x := r.(type) {
		case AsanaRow:
			b.Asana = append(b.Asana, x)
		case JiraRow:
			b.Jira = append(b.Jira, x)
		case ZapierRow:
			b.Zapier = append(b.Zapier, x)
		case HubSpotRow:
			b.HubSpot = append(b.HubSpot, x)
		case M365Row:
			b.M365 = append(b.M365, x)
		}
	}
}

// Merge appends every row of o to b
func (b *Batch) Merge(o Batch) {
	b.Asana = append(b.Asana, o.Asana...)
	b.Jira = append(b.Jira, o.Jira...)
	b.Zapier = append(b.Zapier, o.Zapier...)
	b.HubSpot = append(b.HubSpot, o.HubSpot...)
	b.M365 = append(b.M365, o.M365...)
}
