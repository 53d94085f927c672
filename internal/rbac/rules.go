package rbac

// Simple default policy. Candidates run their own wizard; admins can do
// everything (question upsert, any-session view, proctor review).
var RolePermissions = map[string][]string{
	"candidate": {
		"attempt:create",
		"attempt:select-subjects",
		"attempt:confirm",
		"attempt:begin",
		"attempt:respond",
		"attempt:submit",
		"attempt:view-own",
		"attempt:report-violation",
		"attempt:request-unlock",
		"results:check",
	},
	"admin": {
		"*", // everything
	},
}
