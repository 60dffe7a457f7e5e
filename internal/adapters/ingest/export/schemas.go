package export

import "impactlog/internal/core/source"

var asanaCols = []column[source.AsanaRow]{
	{name: "Task ID", required: true, set: func(r *source.AsanaRow, v string) { r.TaskID = v }},
	{name: "Name", required: true, set: func(r *source.AsanaRow, v string) { r.Name = v }},
	{name: "Created At", required: true, set: func(r *source.AsanaRow, v string) { r.CreatedAt = v }},
	{name: "Section/Column", aliases: []string{"Section", "Column"}, set: func(r *source.AsanaRow, v string) { r.Section = v }},
	{name: "Team", set: func(r *source.AsanaRow, v string) { r.Team = v }},
	{name: "Assignee", set: func(r *source.AsanaRow, v string) { r.Assignee = v }},
	{name: "Completed At", set: func(r *source.AsanaRow, v string) { r.CompletedAt = v }},
	{name: "Tags", set: func(r *source.AsanaRow, v string) { r.Tags = v }},
	{name: "Duration Hours", set: func(r *source.AsanaRow, v string) { r.DurationHours = v }},
}

var jiraCols = []column[source.JiraRow]{
	{name: "Issue key", required: true, set: func(r *source.JiraRow, v string) { r.IssueKey = v }},
	{name: "Summary", required: true, set: func(r *source.JiraRow, v string) { r.Summary = v }},
	{name: "Created", required: true, set: func(r *source.JiraRow, v string) { r.Created = v }},
	{name: "Issue Type", set: func(r *source.JiraRow, v string) { r.IssueType = v }},
	{name: "Labels", set: func(r *source.JiraRow, v string) { r.Labels = v }},
	{name: "Assignee", set: func(r *source.JiraRow, v string) { r.Assignee = v }},
	{name: "Status", set: func(r *source.JiraRow, v string) { r.Status = v }},
	{name: "Resolved", set: func(r *source.JiraRow, v string) { r.Resolved = v }},
	{name: "Time Spent", set: func(r *source.JiraRow, v string) { r.TimeSpent = v }},
}

var zapierCols = []column[source.ZapierRow]{
	{name: "Task ID", required: true, set: func(r *source.ZapierRow, v string) { r.TaskID = v }},
	{name: "Zap Name", required: true, set: func(r *source.ZapierRow, v string) { r.ZapName = v }},
	{name: "Date", required: true, set: func(r *source.ZapierRow, v string) { r.Date = v }},
	{name: "Zap ID", set: func(r *source.ZapierRow, v string) { r.ZapID = v }},
	{name: "Owner", set: func(r *source.ZapierRow, v string) { r.Owner = v }},
	{name: "Status", set: func(r *source.ZapierRow, v string) { r.Status = v }},
	{name: "App", set: func(r *source.ZapierRow, v string) { r.AppName = v }},
	{name: "Category", set: func(r *source.ZapierRow, v string) { r.Category = v }},
	{name: "Duration Minutes", set: func(r *source.ZapierRow, v string) { r.DurationMinutes = v }},
}

var hubspotCols = []column[source.HubSpotRow]{
	{name: "Deal ID", aliases: []string{"Record ID"}, required: true, set: func(r *source.HubSpotRow, v string) { r.DealID = v }},
	{name: "Deal Name", required: true, set: func(r *source.HubSpotRow, v string) { r.DealName = v }},
	{name: "Create Date", required: true, set: func(r *source.HubSpotRow, v string) { r.CreateDate = v }},
	{name: "Deal Stage", set: func(r *source.HubSpotRow, v string) { r.DealStage = v }},
	{name: "Deal Owner", set: func(r *source.HubSpotRow, v string) { r.DealOwner = v }},
	{name: "Original Source", aliases: []string{"Original Source Type"}, set: func(r *source.HubSpotRow, v string) { r.OriginalSource = v }},
	{name: "Close Date", set: func(r *source.HubSpotRow, v string) { r.CloseDate = v }},
	{name: "Pipeline", set: func(r *source.HubSpotRow, v string) { r.Pipeline = v }},
	{name: "Duration Hours", set: func(r *source.HubSpotRow, v string) { r.DurationHours = v }},
}

var m365Cols = []column[source.M365Row]{
	{name: "Activity ID", required: true, set: func(r *source.M365Row, v string) { r.ActivityID = v }},
	{name: "Activity Type", required: true, set: func(r *source.M365Row, v string) { r.ActivityType = v }},
	{name: "Activity Date", required: true, set: func(r *source.M365Row, v string) { r.ActivityDate = v }},
	{name: "User Principal Name", aliases: []string{"User"}, set: func(r *source.M365Row, v string) { r.User = v }},
	{name: "Application", set: func(r *source.M365Row, v string) { r.Application = v }},
	{name: "Duration Minutes", set: func(r *source.M365Row, v string) { r.DurationMinutes = v }},
}
