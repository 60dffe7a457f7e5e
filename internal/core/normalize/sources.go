package normalize

import (
	"impactlog/internal/core/rulepack"
	"impactlog/internal/core/source"
)

// Asana maps task rows; automation comes from the section or team
func Asana(rows []source.AsanaRow, pack *rulepack.Pack) Result {
	return run(rows, func(r source.AsanaRow) (source.Event, string) {
		ev, reason := common(source.Asana, r.Line, r.TaskID, LayoutAsana, r.CreatedAt, r.DurationHours, 1)
		if reason != "" {
			return ev, reason
		}
		auto, rule := pack.Classify(source.Asana, rulepack.Fields{
			rulepack.FieldSection: r.Section,
			rulepack.FieldTeam:    r.Team,
			rulepack.FieldTags:    r.Tags,
		})
		ev.Actor = source.ActorOrUnassigned(r.Assignee)
		ev.Automated = auto
		ev.Category = category(r.Section, r.Team)
		ev.Metadata = meta(
			"record_id", r.TaskID,
			"task", r.Name,
			"section", r.Section,
			"team", r.Team,
			"tags", r.Tags,
			"completed_at", r.CompletedAt,
			"rule", rule,
		)
		return ev, ""
	})
}

// Jira maps issue rows; Time Spent is in seconds
func Jira(rows []source.JiraRow, pack *rulepack.Pack) Result {
	return run(rows, func(r source.JiraRow) (source.Event, string) {
		ev, reason := common(source.Jira, r.Line, r.IssueKey, LayoutJira, r.Created, r.TimeSpent, 3600)
		if reason != "" {
			return ev, reason
		}
		auto, rule := pack.Classify(source.Jira, rulepack.Fields{
			rulepack.FieldLabels:    r.Labels,
			rulepack.FieldIssueType: r.IssueType,
			rulepack.FieldStatus:    r.Status,
		})
		ev.Actor = source.ActorOrUnassigned(r.Assignee)
		ev.Automated = auto
		ev.Category = category(r.IssueType)
		ev.Metadata = meta(
			"record_id", r.IssueKey,
			"task", r.Summary,
			"issue_type", r.IssueType,
			"labels", r.Labels,
			"status", r.Status,
			"resolved", r.Resolved,
			"rule", rule,
		)
		return ev, ""
	})
}

// Zapier maps task history rows; every execution is automation
func Zapier(rows []source.ZapierRow, pack *rulepack.Pack) Result {
	return run(rows, func(r source.ZapierRow) (source.Event, string) {
		ev, reason := common(source.Zapier, r.Line, r.TaskID, LayoutZapier, r.Date, r.DurationMinutes, 60)
		if reason != "" {
			return ev, reason
		}
		auto, rule := pack.Classify(source.Zapier, rulepack.Fields{
			rulepack.FieldZapName:  r.ZapName,
			rulepack.FieldApp:      r.AppName,
			rulepack.FieldCategory: r.Category,
			rulepack.FieldStatus:   r.Status,
		})
		ev.Actor = source.ActorOrUnassigned(r.Owner)
		ev.Automated = auto
		ev.Category = category(r.Category)
		ev.Metadata = meta(
			"record_id", r.TaskID,
			"tool", r.ZapName,
			"zap_id", r.ZapID,
			"app", r.AppName,
			"status", r.Status,
			"rule", rule,
		)
		return ev, ""
	})
}

// HubSpot maps deal rows; automation comes from the original source
func HubSpot(rows []source.HubSpotRow, pack *rulepack.Pack) Result {
	return run(rows, func(r source.HubSpotRow) (source.Event, string) {
		ev, reason := common(source.HubSpot, r.Line, r.DealID, LayoutHubSpot, r.CreateDate, r.DurationHours, 1)
		if reason != "" {
			return ev, reason
		}
		auto, rule := pack.Classify(source.HubSpot, rulepack.Fields{
			rulepack.FieldOriginalSource: r.OriginalSource,
			rulepack.FieldDealStage:      r.DealStage,
			rulepack.FieldPipeline:       r.Pipeline,
		})
		ev.Actor = source.ActorOrUnassigned(r.DealOwner)
		ev.Automated = auto
		ev.Category = category(r.OriginalSource, r.Pipeline)
		ev.Metadata = meta(
			"record_id", r.DealID,
			"task", r.DealName,
			"deal_stage", r.DealStage,
			"pipeline", r.Pipeline,
			"original_source", r.OriginalSource,
			"close_date", r.CloseDate,
			"rule", rule,
		)
		return ev, ""
	})
}

// M365 maps usage report rows; Copilot activity types are automation
func M365(rows []source.M365Row, pack *rulepack.Pack) Result {
	return run(rows, func(r source.M365Row) (source.Event, string) {
		ev, reason := common(source.Microsoft365, r.Line, r.ActivityID, LayoutM365, r.ActivityDate, r.DurationMinutes, 60)
		if reason != "" {
			return ev, reason
		}
		auto, rule := pack.Classify(source.Microsoft365, rulepack.Fields{
			rulepack.FieldActivityType: r.ActivityType,
			rulepack.FieldApplication:  r.Application,
		})
		ev.Actor = source.ActorOrUnassigned(r.User)
		ev.Automated = auto
		ev.Category = category(r.ActivityType)
		ev.Metadata = meta(
			"record_id", r.ActivityID,
			"task", r.ActivityType,
			"tool", r.Application,
			"rule", rule,
		)
		return ev, ""
	})
}
