package server

// Данный сервер просто объединяет специфичные HTTP сервера, отвечающие за обработку конкретных сущностей
type Server struct {
	DealServer
	ProfileServer
}

func NewServer(
	dealServer DealServer,
	profileServer ProfileServer,
) Server {
	return Server{
		DealServer:    dealServer,
		ProfileServer: profileServer,
	}
}
