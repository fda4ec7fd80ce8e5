package server

// Server объединяет HTTP-серверы по сущностям. Сейчас только статус автоприёма.
type Server struct {
	StatusServer
}

func NewServer(
	statusServer StatusServer,
) Server {
	return Server{
		StatusServer: statusServer,
	}
}
