package notification

import "moey-backend/internal/domain"

// route says who receives a notification type and where the client should open it.
type route struct {
	roles     []string
	team      bool
	actionURL string
}

var routes = map[domain.NotificationType]route{
	domain.NotifSurveyRequest:            {roles: []string{domain.RoleSurveyor, domain.RoleDrafter}, team: true, actionURL: "/survey-results"},
	domain.NotifMoodboardRequest:         {roles: []string{domain.RoleDesainer}, team: true, actionURL: "/moodboard"},
	domain.NotifEstimasiRequest:          {roles: []string{domain.RoleEstimator}, actionURL: "/estimasi"},
	domain.NotifCommitmentFeeRequest:     {roles: []string{domain.RoleLegalAdmin}, actionURL: "/commitment-fee"},
	domain.NotifDesignApproval:           {roles: []string{domain.RoleDesainer}, team: true, actionURL: "/moodboard"},
	domain.NotifFinalDesignRequest:       {roles: []string{domain.RoleDesainer}, team: true, actionURL: "/moodboard"},
	domain.NotifItemPekerjaanRequest:     {roles: []string{domain.RoleDesainer}, team: true, actionURL: "/item-pekerjaan"},
	domain.NotifRabInternalRequest:       {roles: []string{domain.RoleEstimator}, actionURL: "/rab-internal"},
	domain.NotifKontrakRequest:           {roles: []string{domain.RoleLegalAdmin}, actionURL: "/kontrak"},
	domain.NotifInvoiceRequest:           {roles: []string{domain.RoleLegalAdmin}, actionURL: "/invoice"},
	domain.NotifSurveyScheduleRequest:    {roles: []string{domain.RoleProjectManager}, actionURL: "/survey-schedule"},
	domain.NotifSurveyUlangRequest:       {roles: []string{domain.RoleSurveyor, domain.RoleDrafter, domain.RoleDesainer}, team: true, actionURL: "/survey-results"},
	domain.NotifGambarKerjaRequest:       {roles: []string{domain.RoleSurveyor, domain.RoleDrafter, domain.RoleDesainer}, team: true, actionURL: "/gambar-kerja"},
	domain.NotifApprovalMaterialRequest:  {roles: []string{domain.RoleDrafter}, team: true, actionURL: "/approval-material"},
	domain.NotifWorkplanRequest:          {roles: []string{domain.RoleProjectManager}, actionURL: "/workplan"},
	domain.NotifProjectManagementRequest: {roles: []string{domain.RoleSupervisor, domain.RoleProjectManager}, actionURL: "/project-management"},
}
