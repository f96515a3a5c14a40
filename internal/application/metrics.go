package application

import "expvar"

// Counters published under /debug/vars.
var metrics = expvar.NewMap("hireboard")

const (
	mSignupsStarted   = "signups_started"
	mSignupsCompleted = "signups_completed"
	mLoginsSucceeded  = "logins_succeeded"
	mLoginsFailed     = "logins_failed"
	mApplications     = "applications_created"
	mReferralsExpired = "referrals_expired"
	mSweepErrors      = "sweep_errors"
)
