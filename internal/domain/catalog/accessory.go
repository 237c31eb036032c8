package catalog

import (
	"sort"

	"github.com/smarthomes/backend/internal/domain/shared/valueobject"
)

// Accessory is an add-on item referenced by products through their
// accessory id lists. The accessory table is fixed.
type Accessory struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Price       valueobject.Money `json:"price"`
	Description string            `json:"description"`
}

func accessory(id int64, name string, price float64, description string) Accessory {
	return Accessory{ID: id, Name: name, Price: valueobject.NewMoneyFromFloat(price), Description: description}
}

var accessories = map[int64]Accessory{
	1:  accessory(1, "Extra Battery", 29.99, "An extra battery for your smart doorbell."),
	2:  accessory(2, "Mounting Kit", 19.99, "A mounting kit for your smart doorbell."),
	3:  accessory(3, "Chime Box", 49.99, "A wireless chime for your smart doorbell."),
	4:  accessory(4, "Solar Charger", 79.99, "A solar charger for your wire-free doorbell."),
	5:  accessory(5, "Smart Lock Keypad", 49.99, "A keypad for easy access to your smart lock."),
	6:  accessory(6, "Door Sensor", 19.99, "A sensor to monitor the status of your door lock."),
	7:  accessory(7, "Wi-Fi Adapter", 39.99, "A Wi-Fi adapter for remote access to your smart lock."),
	8:  accessory(8, "Echo Remote", 29.99, "A remote control for your Amazon Echo."),
	9:  accessory(9, "Smart Plug", 24.99, "A smart plug to control non-smart devices with your smart speaker."),
	10: accessory(10, "Google Nest Stand", 39.99, "A stand for your Google Nest Audio."),
	11: accessory(11, "Wall Mount", 19.99, "A wall mount for your Apple HomePod mini."),
	12: accessory(12, "Philips Hue Bridge", 59.99, "A hub to control your Philips Hue lights remotely."),
	13: accessory(13, "Philips Hue Dimmer Switch", 29.99, "A dimmer switch for your Philips Hue lights."),
	14: accessory(14, "LIFX Remote", 19.99, "A remote control for your LIFX smart bulb."),
	15: accessory(15, "Wyze Motion Sensor", 14.99, "A motion sensor for Wyze smart lights."),
	16: accessory(16, "Google Nest Temperature Sensor", 39.99, "A temperature sensor for your Nest thermostat."),
	17: accessory(17, "Ecobee Room Sensor", 79.99, "A room sensor to control temperature in specific areas."),
	18: accessory(18, "Ecobee Smart Light Switch", 99.99, "A light switch with built-in Alexa for controlling your Ecobee thermostat."),
	19: accessory(19, "Honeywell Smart Room Sensor", 39.99, "A room sensor to extend the comfort of your Honeywell T9 thermostat."),
}

// Accessories returns the accessory table ordered by id
func Accessories() []Accessory {
	out := make([]Accessory, 0, len(accessories))
	for _, a := range accessories {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LookupAccessory returns the accessory with the given id
func LookupAccessory(id int64) (Accessory, bool) {
	a, ok := accessories[id]
	return a, ok
}

// AccessoriesFor resolves a product's accessory ids. Unknown ids are skipped.
func AccessoriesFor(p Product) []Accessory {
	out := make([]Accessory, 0, len(p.Accessories))
	for _, id := range p.Accessories {
		if a, ok := accessories[id]; ok {
			out = append(out, a)
		}
	}
	return out
}
