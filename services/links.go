package services

// Self links embedded in representations. Paths match the router setup in
// routes/routes.go.
func budgetURL(id string) string {
	return "/budgets/" + id
}

func categoryURL(id string) string {
	return "/categories/" + id
}

func entryURL(id string) string {
	return "/financial-entries/" + id
}

func userURL(id string) string {
	return "/users/" + id
}

func grantURL(id string) string {
	return "/budget-users/" + id
}
