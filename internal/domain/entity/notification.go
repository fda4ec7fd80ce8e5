package entity

// Template задаёт заголовок и тело уведомления с плейсхолдерами вида {item_name}.
type Template struct {
	Title string
	Body  string
}

func (t *Template) Configured() bool {
	return t != nil && (t.Title != "" || t.Body != "")
}
