package server

// Server объединяет специфичные HTTP сервера: переговоры и дашборд.
type Server struct {
	NegotiationServer
	DashboardServer
}

func NewServer(
	negotiationServer NegotiationServer,
	dashboardServer DashboardServer,
) Server {
	return Server{
		NegotiationServer: negotiationServer,
		DashboardServer:   dashboardServer,
	}
}
