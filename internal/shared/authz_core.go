package shared

// Well-known permission pages. Pages are data (rows in the pages table);
// these names are the ones seeded at install time and referenced by the
// content handlers.
const (
	PageHome      = "home"
	PageEvents    = "events"
	PageProjects  = "projects"
	PageBlogs     = "blogs"
	PageResources = "resources"
	PageAlumni    = "alumni"
	PagePosts     = "posts"
	PageContact   = "contact"
	PageEmail     = "email"
)

// DefaultPages lists the pages seeded for a fresh installation.
func DefaultPages() []string {
	return []string{
		PageHome,
		PageEvents,
		PageProjects,
		PageBlogs,
		PageResources,
		PageAlumni,
		PagePosts,
		PageContact,
		PageEmail,
	}
}
