package models

// OverviewStats сводка для панели администратора: количество пользователей
// и занятий вместе со статистикой броней и абонементов. Собирается только
// чтением, собственного состояния не имеет.
type OverviewStats struct {
	Users        int `json:"users"`
	Classes      int `json:"classes"`
	Reservations int `json:"reservations"`
	Memberships  int `json:"memberships"`
}
