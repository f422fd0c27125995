package payment

// NavContext is the dashboard a payment view is opened from.
type NavContext int

const (
	ManagementContext NavContext = iota
	ResidentContext
)

const (
	managementPaymentPath = "/dashboard/payment"
	residentPaymentPath   = "/resident_dashboard/payment"
)

// ListPath returns the payment list page of the context.
func (c NavContext) ListPath() string {
	if c == ResidentContext {
		return residentPaymentPath
	}
	return managementPaymentPath
}

// SuccessRedirect returns where a completed payment sends the user.
func (c NavContext) SuccessRedirect() string {
	return c.ListPath()
}

// RoutePrefix is the path prefix under which per-invoice pages are mounted.
func (c NavContext) RoutePrefix() string {
	return c.ListPath() + "/"
}

func (c NavContext) String() string {
	if c == ResidentContext {
		return "resident"
	}
	return "management"
}
