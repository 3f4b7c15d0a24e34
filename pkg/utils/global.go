package utils

//FrameRate is the fixed sampling rate of the analyzed footage, one step == 1/FrameRate seconds
const FrameRate = 24

//MetersPerSecondToKmh converts m/s into km/h
const MetersPerSecondToKmh = 3.6

//NoPlayer is the sentinel returned when no player is assigned to the ball
const NoPlayer = -1

//NoTeam is the team value used before any player has touched the ball
const NoTeam = 0
