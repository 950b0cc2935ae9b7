package authevents

const (
	TopicName          = "customerauth"
	loginStartedName   = TopicName + ".login.started"
	loginCompletedName = TopicName + ".login.completed"
	loginFailedName    = TopicName + ".login.failed"
	loggedOutName      = TopicName + ".loggedout"
)

type LoginStarted struct {
	FlowUID   string
	ReturnURL string
}

func (e LoginStarted) GetEventTypeName() string {
	return loginStartedName
}

func (e LoginStarted) GetAggregateName() string {
	return e.FlowUID
}

type LoginCompleted struct {
	FlowUID string
}

func (e LoginCompleted) GetEventTypeName() string {
	return loginCompletedName
}

func (e LoginCompleted) GetAggregateName() string {
	return e.FlowUID
}

type LoginFailed struct {
	FlowUID string
	Reason  string
}

func (e LoginFailed) GetEventTypeName() string {
	return loginFailedName
}

func (e LoginFailed) GetAggregateName() string {
	return e.FlowUID
}

type LoggedOut struct {
	FlowUID string
}

func (e LoggedOut) GetEventTypeName() string {
	return loggedOutName
}

func (e LoggedOut) GetAggregateName() string {
	return e.FlowUID
}
